// mdxtool is a CLI utility for inspecting and converting MDX models.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/mdxkit/internal/config"
	"github.com/Faultbox/mdxkit/internal/export"
	"github.com/Faultbox/mdxkit/internal/logger"
	"github.com/Faultbox/mdxkit/pkg/math"
	"github.com/Faultbox/mdxkit/pkg/mdx"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "dump":
		cmdDump(args)
	case "export", "convert":
		cmdExport(cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mdxtool - MDX model utility

Usage:
  mdxtool [options] <command> [args]

Commands:
  info <file.mdx>     Show model information
  dump <file.mdx>     Dump sequences, nodes and animation tracks
  export <file.mdx> [out]   Convert the model to glTF

Options:
  -config <path>      Path to config file
  -debug              Enable debug logging
  -log-file <path>    Write logs to a file
  -output <dir>       Output directory for converted files
  -format <fmt>       Export format: gltf or glb

Examples:
  mdxtool info Footman.mdx
  mdxtool dump Footman.mdx
  mdxtool -format glb -output ./converted export Footman.mdx`)
}

func loadModel(path string) *mdx.Model {
	m, err := mdx.ParseFile(path)
	if err != nil {
		logger.Error("failed to parse model", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}
	logger.Sugar.Debugf("parsed %s: version %d, %d geosets", path, m.Version, len(m.Geosets))
	return m
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mdxtool info <file.mdx>")
		os.Exit(1)
	}

	m := loadModel(args[0])

	fmt.Printf("Model:      %s\n", m.Info.Name)
	fmt.Printf("Version:    %d\n", m.Version)
	fmt.Printf("Radius:     %.2f\n", m.Info.BoundsRadius)
	fmt.Printf("Animated:   %v\n", m.HasAnimation())
	fmt.Println()
	fmt.Printf("Sequences:  %d\n", len(m.Sequences))
	fmt.Printf("Materials:  %d\n", len(m.Materials))
	fmt.Printf("Textures:   %d\n", len(m.Textures))
	fmt.Printf("Geosets:    %d (%d vertices, %d primitive groups)\n",
		len(m.Geosets), m.TotalVertexCount(), m.TotalPrimitiveCount())
	fmt.Printf("Bones:      %d\n", len(m.Bones))
	fmt.Printf("Helpers:    %d\n", len(m.Helpers))
	fmt.Printf("Lights:     %d\n", len(m.Lights))
	fmt.Printf("Attachments: %d\n", len(m.Attachments))
	fmt.Printf("Emitters:   %d v1, %d v2\n", len(m.Emitters), len(m.Emitters2))
	fmt.Printf("Pivots:     %d\n", len(m.PivotPoints))
}

func cmdDump(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mdxtool dump <file.mdx>")
		os.Exit(1)
	}

	m := loadModel(args[0])

	fmt.Println("Sequences:")
	for _, s := range m.Sequences {
		fmt.Printf("  %-24s frames %d-%d (%d)", s.Name, s.IntervalStart, s.IntervalEnd, s.Duration())
		if s.NonLooping {
			fmt.Print("  non-looping")
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Println("Textures:")
	for i, tex := range m.Textures {
		path := tex.Path
		if path == "" {
			path = fmt.Sprintf("(replaceable %d)", tex.ReplaceableID)
		}
		fmt.Printf("  [%d] %s\n", i, path)
	}

	fmt.Println()
	fmt.Println("Materials:")
	for i, mat := range m.Materials {
		fmt.Printf("  [%d] priority %d, %d layers\n", i, mat.PriorityPlane, len(mat.Layers))
		for _, l := range mat.Layers {
			fmt.Printf("      texture %d filter %d alpha %.2f", l.TextureID, l.FilterMode, l.Alpha)
			if l.TwoSided {
				fmt.Print("  two-sided")
			}
			if l.Unshaded {
				fmt.Print("  unshaded")
			}
			fmt.Println()
		}
	}

	fmt.Println()
	fmt.Println("Geosets:")
	for i, g := range m.Geosets {
		minExt, maxExt := math.BoundsOf(g.Vertices)
		fmt.Printf("  [%d] %d vertices, %d primitive groups, material %d\n",
			i, len(g.Vertices), len(g.Primitives), g.Attributes.MaterialID)
		fmt.Printf("      extent (%.1f %.1f %.1f) to (%.1f %.1f %.1f)\n",
			minExt.X, minExt.Y, minExt.Z, maxExt.X, maxExt.Y, maxExt.Z)
	}

	fmt.Println()
	fmt.Println("Bones:")
	for _, b := range m.Bones {
		parent := "root"
		if b.ParentID != mdx.NoParent {
			parent = fmt.Sprintf("parent %d", b.ParentID)
		}
		fmt.Printf("  [%d] %-24s %s", b.ObjectID, b.Name, parent)
		if b.Flags != 0 {
			fmt.Printf("  (%s)", b.Flags)
		}
		fmt.Println()
		dumpTracks(b.Tracks)
	}

	if len(m.Helpers) > 0 {
		fmt.Println()
		fmt.Println("Helpers:")
		for _, h := range m.Helpers {
			fmt.Printf("  [%d] %s\n", h.ObjectID, h.Name)
			dumpTracks(h.Tracks)
		}
	}
}

func dumpTracks(tracks []mdx.Track) {
	for _, tr := range tracks {
		fmt.Printf("      %-16s %-8s %d keys", tr.Channel, tr.Interp, len(tr.Keys))
		if tr.Channel == mdx.ChannelNodeRotation && len(tr.Keys) > 0 {
			axis, angle := tr.Keys[0].Quat().AxisAngle()
			fmt.Printf("  first key axis (%.2f %.2f %.2f) angle %.2f",
				axis.X, axis.Y, axis.Z, angle)
		}
		fmt.Println()
	}
}

func cmdExport(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: mdxtool export <file.mdx> [out.gltf|out.glb]")
		os.Exit(1)
	}

	m := loadModel(args[0])

	var outPath string
	if len(args) > 1 {
		outPath = args[1]
	} else {
		ext := ".gltf"
		if strings.EqualFold(cfg.Export.Format, "glb") {
			ext = ".glb"
		}
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		outPath = filepath.Join(cfg.Export.OutputDir, base+ext)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		logger.Error("failed to create output directory", zap.Error(err))
		os.Exit(1)
	}
	if err := export.Save(m, outPath); err != nil {
		logger.Error("export failed", zap.String("path", outPath), zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Exported: %s\n", outPath)
}
