// Package export converts parsed models into glTF 2.0 documents.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/mdxkit/pkg/math"
	"github.com/Faultbox/mdxkit/pkg/mdx"
)

// primitiveModes maps mesh topologies onto their glTF primitive modes.
// Quads, quad strips and polygons have no glTF equivalent.
var primitiveModes = map[mdx.PrimitiveType]gltf.PrimitiveMode{
	mdx.PrimitivePoints:        gltf.PrimitivePoints,
	mdx.PrimitiveLines:         gltf.PrimitiveLines,
	mdx.PrimitiveLineLoop:      gltf.PrimitiveLineLoop,
	mdx.PrimitiveLineStrip:     gltf.PrimitiveLineStrip,
	mdx.PrimitiveTriangles:     gltf.PrimitiveTriangles,
	mdx.PrimitiveTriangleStrip: gltf.PrimitiveTriangleStrip,
	mdx.PrimitiveTriangleFan:   gltf.PrimitiveTriangleFan,
}

// Document builds a glTF document holding one mesh per geoset. Each
// primitive group becomes a glTF primitive sharing the geoset's vertex
// attributes. Normals and the first UV set are exported when they align
// with the vertex list.
func Document(m *mdx.Model) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "mdxkit"
	if m.Info.Name != "" {
		doc.Scenes[0].Name = m.Info.Name
	}

	for i, g := range m.Geosets {
		mesh, err := buildMesh(doc, &g, i)
		if err != nil {
			return nil, fmt.Errorf("geoset %d: %w", i, err)
		}
		doc.Meshes = append(doc.Meshes, mesh)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: mesh.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc, nil
}

func buildMesh(doc *gltf.Document, g *mdx.Geoset, index int) (*gltf.Mesh, error) {
	attrs := gltf.PrimitiveAttributes{}
	if len(g.Vertices) > 0 {
		attrs[gltf.POSITION] = modeler.WritePosition(doc, vec3Data(g.Vertices))
	}
	if len(g.Normals) == len(g.Vertices) && len(g.Normals) > 0 {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, vec3Data(g.Normals))
	}
	if len(g.TexCoordSets) > 0 && len(g.TexCoordSets[0]) == len(g.Vertices) && len(g.Vertices) > 0 {
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, vec2Data(g.TexCoordSets[0]))
	}

	mesh := &gltf.Mesh{Name: fmt.Sprintf("geoset_%d", index)}
	for _, p := range g.Primitives {
		mode, ok := primitiveModes[p.Type]
		if !ok {
			return nil, fmt.Errorf("unsupported primitive topology %s", p.Type)
		}
		indices, err := indexData(p.Indices, len(g.Vertices))
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Mode:       mode,
		})
	}
	return mesh, nil
}

// Save writes the model to path, choosing binary output for a .glb
// extension and JSON otherwise.
func Save(m *mdx.Model, path string) error {
	doc, err := Document(m)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return gltf.SaveBinary(doc, path)
	}
	return gltf.Save(doc, path)
}

func vec3Data(vs []math.Vec3) [][3]float32 {
	out := make([][3]float32, len(vs))
	for i, v := range vs {
		out[i] = [3]float32{v.X, v.Y, v.Z}
	}
	return out
}

func vec2Data(vs []math.Vec2) [][2]float32 {
	out := make([][2]float32, len(vs))
	for i, v := range vs {
		out[i] = [2]float32{v.X, v.Y}
	}
	return out
}

func indexData(indices []int16, vertexCount int) ([]uint16, error) {
	out := make([]uint16, len(indices))
	for i, idx := range indices {
		if idx < 0 || int(idx) >= vertexCount {
			return nil, fmt.Errorf("vertex index %d out of range [0, %d)", idx, vertexCount)
		}
		out[i] = uint16(idx)
	}
	return out, nil
}
