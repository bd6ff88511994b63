package mdx

import (
	"fmt"
	"io"
	"os"
)

// Fixed record widths of the flat top-level chunks.
const (
	sequenceRecordSize = 132
	textureRecordSize  = 268
	layerFixedSize     = 24
)

// decoder drives the fixed top-level chunk sequence over a bounded reader
// and populates the model as it goes.
type decoder struct {
	r     *reader
	model *Model
}

// Parse decodes an MDX model from a byte slice.
func Parse(data []byte) (*Model, error) {
	d := &decoder{r: newReader(data), model: &Model{}}
	if err := d.decode(); err != nil {
		return nil, err
	}
	return d.model, nil
}

// ParseReader decodes an MDX model from a stream. The input is buffered in
// full first; the decode itself is a single pass over memory.
func ParseReader(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading MDX data: %w", err)
	}
	return Parse(data)
}

// ParseFile decodes an MDX model from disk.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MDX file: %w", err)
	}
	return Parse(data)
}

// decode runs the fixed top-level chunk order. Chunk kinds past PRE2
// (ribbon emitters, event tracks, collision shapes) are not decoded; their
// bytes, if present, are left unread and the decode still succeeds.
func (d *decoder) decode() error {
	if d.r.tag() != "MDLX" {
		return ErrNotMDX
	}

	steps := []func() error{
		d.readVersion,
		d.readModelInfo,
		d.readSequences,
		d.readGlobalSequences,
		d.readMaterials,
		d.readTextures,
		d.readTextureAnims,
		d.readGeosets,
		d.readGeosetAnims,
		d.readBones,
		d.readLights,
		d.readHelpers,
		d.readAttachments,
		d.readPivotPoints,
		d.readEmitters,
		d.readEmitters2,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) readVersion() error {
	if err := d.expectTag("VERS"); err != nil {
		return err
	}
	buf, err := d.readBlock("VERS")
	if err != nil {
		return err
	}
	d.r.push(buf)
	d.model.Version = d.r.int32()
	d.r.pop()
	return d.r.err
}

func (d *decoder) readModelInfo() error {
	if err := d.expectTag("MODL"); err != nil {
		return err
	}
	buf, err := d.readBlock("MODL")
	if err != nil {
		return err
	}
	d.r.push(buf)
	d.model.Info = ModelInfo{
		Name:         d.r.fixedString(80),
		BoundsRadius: d.r.float32(),
		MinExtent:    d.r.vec3(),
		MaxExtent:    d.r.vec3(),
		BlendTime:    d.r.int32(),
	}
	d.r.pop()
	return d.r.err
}

func (d *decoder) readSequences() error {
	if err := d.expectTag("SEQS"); err != nil {
		return err
	}
	buf, err := d.readBlock("SEQS")
	if err != nil {
		return err
	}

	d.r.push(buf)
	defer d.r.pop()
	for d.r.remaining() > 0 {
		if d.r.remaining() < sequenceRecordSize {
			return ErrTruncated
		}
		s := Sequence{
			Name:          d.r.fixedString(80),
			IntervalStart: d.r.int32(),
			IntervalEnd:   d.r.int32(),
			MoveSpeed:     d.r.float32(),
			NonLooping:    d.r.int32() != 0,
			Rarity:        d.r.float32(),
		}
		d.r.skip(4) // sync point, unused
		s.BoundsRadius = d.r.float32()
		s.MinExtent = d.r.vec3()
		s.MaxExtent = d.r.vec3()
		if d.r.err != nil {
			return d.r.err
		}
		d.model.Sequences = append(d.model.Sequences, s)
	}
	return nil
}

func (d *decoder) readGlobalSequences() error {
	if !d.peekTag("GLBS") {
		return nil
	}
	buf, err := d.readBlock("GLBS")
	if err != nil {
		return err
	}

	d.r.push(buf)
	defer d.r.pop()
	for d.r.remaining() > 0 {
		duration := d.r.int32()
		if d.r.err != nil {
			return d.r.err
		}
		d.model.GlobalSequences = append(d.model.GlobalSequences, duration)
	}
	return nil
}

func (d *decoder) readMaterials() error {
	return d.readMultiblock("MTLS", false, d.readMaterial)
}

// Material flag bits.
const (
	materialConstantColor  = 0x01
	materialSortPrimsFarZ  = 0x10
	materialFullResolution = 0x20
)

func (d *decoder) readMaterial(_ int) error {
	priority := d.r.int32()
	flags := d.r.int32()
	if d.r.err != nil {
		return d.r.err
	}

	mat := Material{
		PriorityPlane:  priority,
		ConstantColor:  flags&materialConstantColor != 0,
		SortPrimsFarZ:  flags&materialSortPrimsFarZ != 0,
		FullResolution: flags&materialFullResolution != 0,
	}

	layers, err := d.readLayers()
	if err != nil {
		return err
	}
	mat.Layers = layers
	d.model.Materials = append(d.model.Materials, mat)
	return nil
}

// Layer shading flag bits.
const (
	layerUnshaded     = 0x01
	layerSphereEnvMap = 0x02
	layerTwoSided     = 0x10
	layerUnfogged     = 0x20
	layerNoDepthTest  = 0x40
	layerNoDepthSet   = 0x80
)

// readLayers reads a material's LAYS block: a layer count, then that many
// self-length-prefixed layer records, each with trailing alpha /
// texture-index tracks.
func (d *decoder) readLayers() ([]Layer, error) {
	if err := d.expectTag("LAYS"); err != nil {
		return nil, err
	}
	nlays := d.r.int32()
	if d.r.err != nil {
		return nil, d.r.err
	}

	var layers []Layer
	for li := int32(0); li < nlays; li++ {
		n := d.r.int32()
		if d.r.err != nil {
			return nil, d.r.err
		}
		if n < 4 {
			return nil, &NegativeLengthError{Tag: "LAYS", Length: n}
		}
		buf := d.r.bytes(int(n) - 4)
		if len(buf) != int(n)-4 {
			return nil, ErrTruncated
		}

		d.r.push(buf)
		layer, err := d.readLayer(len(buf))
		d.r.pop()
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func (d *decoder) readLayer(size int) (Layer, error) {
	filter := d.r.int32()
	flags := d.r.int32()
	layer := Layer{
		FilterMode:    filter,
		Unshaded:      flags&layerUnshaded != 0,
		SphereEnvMap:  flags&layerSphereEnvMap != 0,
		TwoSided:      flags&layerTwoSided != 0,
		Unfogged:      flags&layerUnfogged != 0,
		NoDepthTest:   flags&layerNoDepthTest != 0,
		NoDepthSet:    flags&layerNoDepthSet != 0,
		TextureID:     d.r.int32(),
		TextureAnimID: d.r.int32(),
		CoordID:       d.r.int32(),
		Alpha:         d.r.float32(),
	}
	if d.r.err != nil {
		return Layer{}, d.r.err
	}

	for j := layerFixedSize; j < size; {
		tr, m, err := d.readLayerTrack()
		if err != nil {
			return Layer{}, err
		}
		layer.Tracks = append(layer.Tracks, tr)
		j += m
		if j > size {
			return Layer{}, &OverrunError{Context: "layer", Consumed: j, Declared: size}
		}
	}
	return layer, nil
}

func (d *decoder) readTextures() error {
	if err := d.expectTag("TEXS"); err != nil {
		return err
	}
	buf, err := d.readBlock("TEXS")
	if err != nil {
		return err
	}

	d.r.push(buf)
	defer d.r.pop()
	for d.r.remaining() > 0 {
		if d.r.remaining() < textureRecordSize {
			return ErrTruncated
		}
		tex := Texture{
			ReplaceableID: d.r.int32(),
			Path:          d.r.fixedString(256),
		}
		d.r.skip(4)
		flags := d.r.int32()
		tex.WrapWidth = flags&0x1 != 0
		tex.WrapHeight = flags&0x2 != 0
		if d.r.err != nil {
			return d.r.err
		}
		d.model.Textures = append(d.model.Textures, tex)
	}
	return nil
}

func (d *decoder) readTextureAnims() error {
	return d.readMultiblock("TXAN", true, func(maxBytes int) error {
		var anim TextureAnim
		for j := 0; j < maxBytes; {
			tr, m, err := d.readTextureAnimTrack()
			if err != nil {
				return err
			}
			anim.Tracks = append(anim.Tracks, tr)
			j += m
			if j > maxBytes {
				return &OverrunError{Context: "texture animation", Consumed: j, Declared: maxBytes}
			}
		}
		d.model.TextureAnims = append(d.model.TextureAnims, anim)
		return nil
	})
}

func (d *decoder) readGeosets() error {
	return d.readMultiblock("GEOS", false, d.readGeoset)
}

func (d *decoder) readGeosetAnims() error {
	return d.readMultiblock("GEOA", false, func(maxBytes int) error {
		anim := GeosetAnim{
			Alpha:     d.r.float32(),
			ColorAnim: ColorAnimation(d.r.int32()),
			Color:     [3]float32{d.r.float32(), d.r.float32(), d.r.float32()},
			GeosetID:  d.r.int32(),
		}
		if d.r.err != nil {
			return d.r.err
		}

		for j := 24; j < maxBytes; {
			tr, m, err := d.readGeosetAnimTrack()
			if err != nil {
				return err
			}
			anim.Tracks = append(anim.Tracks, tr)
			j += m
			if j > maxBytes {
				return &OverrunError{Context: "geoset animation", Consumed: j, Declared: maxBytes}
			}
		}
		d.model.GeosetAnims = append(d.model.GeosetAnims, anim)
		return nil
	})
}

// readBones reads the BONE block. Bones use custom framing: each record is a
// node followed by two trailing integers, with no per-record length prefix,
// so the running position advances by the node's declared length plus 8.
func (d *decoder) readBones() error {
	if err := d.expectTag("BONE"); err != nil {
		return err
	}
	buf, err := d.readBlock("BONE")
	if err != nil {
		return err
	}

	for i := 0; i < len(buf); {
		d.r.push(buf[i:])
		obj, flags, k, err := d.readObject()
		if err != nil {
			d.r.pop()
			return err
		}
		bone := Bone{
			Object:       obj,
			Flags:        NodeFlags(flags),
			GeosetID:     d.r.int32(),
			GeosetAnimID: d.r.int32(),
		}
		if d.r.err != nil {
			d.r.pop()
			return d.r.err
		}
		d.r.pop()
		d.model.Bones = append(d.model.Bones, bone)
		i += k + 8
	}
	return nil
}

func (d *decoder) readLights() error {
	return d.readMultiblock("LITE", true, func(maxBytes int) error {
		obj, flags, k, err := d.readObject()
		if err != nil {
			return err
		}
		light := Light{
			Object:      obj,
			Flags:       NodeFlags(flags),
			Type:        LightType(d.r.int32()),
			Attenuation: [2]float32{d.r.float32(), d.r.float32()},
			Color:       [3]float32{d.r.float32(), d.r.float32(), d.r.float32()},
			Intensity:   d.r.float32(),
			AmbientColor: [3]float32{
				d.r.float32(), d.r.float32(), d.r.float32(),
			},
			AmbientIntensity: d.r.float32(),
		}
		if d.r.err != nil {
			return d.r.err
		}

		for j := k + 44; j < maxBytes; {
			tr, m, err := d.readLightTrack()
			if err != nil {
				return err
			}
			light.Tracks = append(light.Tracks, tr)
			j += m
			if j > maxBytes {
				return &OverrunError{Context: "light", Consumed: j, Declared: maxBytes}
			}
		}
		d.model.Lights = append(d.model.Lights, light)
		return nil
	})
}

// readHelpers reads the optional HELP block: bare nodes with no trailing
// fields, framed only by each node's declared length.
func (d *decoder) readHelpers() error {
	if !d.peekTag("HELP") {
		return nil
	}
	buf, err := d.readBlock("HELP")
	if err != nil {
		return err
	}

	for i := 0; i < len(buf); {
		d.r.push(buf[i:])
		obj, flags, k, err := d.readObject()
		d.r.pop()
		if err != nil {
			return err
		}
		d.model.Helpers = append(d.model.Helpers, Helper{Object: obj, Flags: NodeFlags(flags)})
		i += k
	}
	return nil
}

func (d *decoder) readAttachments() error {
	return d.readMultiblock("ATCH", true, func(maxBytes int) error {
		obj, flags, k, err := d.readObject()
		if err != nil {
			return err
		}
		att := Attachment{
			Object: obj,
			Flags:  NodeFlags(flags),
			Path:   d.r.fixedString(256),
		}
		d.r.skip(4)
		att.AttachmentID = d.r.int32()
		if d.r.err != nil {
			return d.r.err
		}

		for j := k + 264; j < maxBytes; {
			tr, m, err := d.readAttachmentTrack()
			if err != nil {
				return err
			}
			att.Tracks = append(att.Tracks, tr)
			j += m
			if j > maxBytes {
				return &OverrunError{Context: "attachment", Consumed: j, Declared: maxBytes}
			}
		}
		d.model.Attachments = append(d.model.Attachments, att)
		return nil
	})
}

// readPivotPoints reads the PIVT chunk. Its length field is a byte count,
// not a vector count: the chunk holds length/12 3-float points.
func (d *decoder) readPivotPoints() error {
	if err := d.expectTag("PIVT"); err != nil {
		return err
	}
	n := d.r.int32()
	if d.r.err != nil {
		return d.r.err
	}
	if n < 0 {
		return &NegativeLengthError{Tag: "PIVT", Length: n}
	}

	for i := int32(0); i < n/12; i++ {
		p := d.r.vec3()
		if d.r.err != nil {
			return d.r.err
		}
		d.model.PivotPoints = append(d.model.PivotPoints, p)
	}
	return nil
}

func (d *decoder) readEmitters() error {
	return d.readMultiblock("PREM", true, func(maxBytes int) error {
		obj, flags, k, err := d.readObject()
		if err != nil {
			return err
		}
		em := ParticleEmitter{
			Object:       obj,
			Flags:        EmitterFlags(flags),
			EmissionRate: d.r.float32(),
			Gravity:      d.r.float32(),
			Longitude:    d.r.float32(),
			Latitude:     d.r.float32(),
			ModelPath:    d.r.fixedString(256),
			LifeSpan:     d.r.float32(),
			InitVelocity: d.r.float32(),
		}
		if d.r.err != nil {
			return d.r.err
		}

		for j := k + 280; j < maxBytes; {
			tr, m, err := d.readEmitterTrack()
			if err != nil {
				return err
			}
			em.Tracks = append(em.Tracks, tr)
			j += m
			if j > maxBytes {
				return &OverrunError{Context: "particle emitter", Consumed: j, Declared: maxBytes}
			}
		}
		d.model.Emitters = append(d.model.Emitters, em)
		return nil
	})
}

func (d *decoder) readEmitters2() error {
	return d.readMultiblock("PRE2", true, func(maxBytes int) error {
		obj, flags, k, err := d.readObject()
		if err != nil {
			return err
		}
		em := ParticleEmitter2{
			Object:       obj,
			Flags:        Emitter2Flags(flags),
			Speed:        d.r.float32(),
			Variation:    d.r.float32(),
			Latitude:     d.r.float32(),
			Gravity:      d.r.float32(),
			LifeSpan:     d.r.float32(),
			EmissionRate: d.r.float32(),
			Length:       d.r.float32(),
			Width:        d.r.float32(),
			FilterMode:   FilterMode(d.r.int32()),
			Rows:         d.r.int32(),
			Columns:      d.r.int32(),
			TailMode:     TailMode(d.r.int32()),
			TailLength:   d.r.float32(),
			Time:         d.r.float32(),
		}
		for i := range em.SegmentColor {
			em.SegmentColor[i] = [3]float32{d.r.float32(), d.r.float32(), d.r.float32()}
		}
		em.Alpha = [3]uint8{d.r.uint8(), d.r.uint8(), d.r.uint8()}
		em.Scaling = [3]float32{d.r.float32(), d.r.float32(), d.r.float32()}
		for _, uv := range []*[3]int32{
			&em.LifeSpanUVAnim, &em.DecayUVAnim, &em.TailUVAnim, &em.TailDecayUVAnim,
		} {
			*uv = [3]int32{d.r.int32(), d.r.int32(), d.r.int32()}
		}
		em.TextureID = d.r.int32()
		em.Squirt = d.r.int32() != 0
		em.PriorityPlane = d.r.int32()
		em.ReplaceableID = d.r.int32()
		if d.r.err != nil {
			return d.r.err
		}

		for j := k + 171; j < maxBytes; {
			tr, m, err := d.readEmitter2Track()
			if err != nil {
				return err
			}
			em.Tracks = append(em.Tracks, tr)
			j += m
			if j > maxBytes {
				return &OverrunError{Context: "particle emitter 2", Consumed: j, Declared: maxBytes}
			}
		}
		d.model.Emitters2 = append(d.model.Emitters2, em)
		return nil
	})
}
