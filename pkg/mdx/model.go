// Package mdx decodes the chunked MDX binary format describing a skinned 3D
// model: meshes, materials, bones, lights, particle systems and keyframed
// animation tracks.
package mdx

import (
	"fmt"

	"github.com/Faultbox/mdxkit/pkg/math"
)

// NoParent is the parent id of a node at the root of the hierarchy.
const NoParent int32 = -1

// Model is the decoded scene: ordered sequences of every record kind plus
// the format version and model metadata. It is populated once during decode
// and never mutated afterward.
type Model struct {
	Version         int32
	Info            ModelInfo
	Sequences       []Sequence
	GlobalSequences []int32 // shared timeline durations, referenced by id
	Materials       []Material
	Textures        []Texture
	TextureAnims    []TextureAnim
	Geosets         []Geoset
	GeosetAnims     []GeosetAnim
	Bones           []Bone
	Lights          []Light
	Helpers         []Helper
	Attachments     []Attachment
	PivotPoints     []math.Vec3
	Emitters        []ParticleEmitter
	Emitters2       []ParticleEmitter2
}

// ModelInfo is the MODL chunk: model metadata.
type ModelInfo struct {
	Name         string
	BoundsRadius float32
	MinExtent    math.Vec3
	MaxExtent    math.Vec3
	BlendTime    int32
}

// Sequence is one named animation interval.
type Sequence struct {
	Name          string
	IntervalStart int32
	IntervalEnd   int32
	MoveSpeed     float32
	NonLooping    bool
	Rarity        float32
	BoundsRadius  float32
	MinExtent     math.Vec3
	MaxExtent     math.Vec3
}

// Duration returns the sequence length in frames.
func (s Sequence) Duration() int32 {
	return s.IntervalEnd - s.IntervalStart
}

// Texture is one TEXS record.
type Texture struct {
	ReplaceableID int32
	Path          string
	WrapWidth     bool
	WrapHeight    bool
}

// Material owns an ordered list of render layers.
type Material struct {
	PriorityPlane  int32
	ConstantColor  bool
	SortPrimsFarZ  bool
	FullResolution bool
	Layers         []Layer
}

// Layer is one render pass of a material, with its own blend state, texture
// reference and alpha / texture-index animation tracks.
type Layer struct {
	FilterMode    int32
	Unshaded      bool
	SphereEnvMap  bool
	TwoSided      bool
	Unfogged      bool
	NoDepthTest   bool
	NoDepthSet    bool
	TextureID     int32
	TextureAnimID int32
	CoordID       int32
	Alpha         float32
	Tracks        []Track
}

// TextureAnim is one TXAN record: a bundle of texture-transform tracks.
type TextureAnim struct {
	Tracks []Track
}

// ColorAnimation selects which geoset-animation channels are active.
type ColorAnimation int32

const (
	ColorAnimNone       ColorAnimation = 0
	ColorAnimDropShadow ColorAnimation = 1
	ColorAnimColor      ColorAnimation = 2
	ColorAnimBoth       ColorAnimation = 3
)

// String returns a human-readable color-animation name.
func (c ColorAnimation) String() string {
	switch c {
	case ColorAnimNone:
		return "None"
	case ColorAnimDropShadow:
		return "DropShadow"
	case ColorAnimColor:
		return "Color"
	case ColorAnimBoth:
		return "Both"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(c))
	}
}

// GeosetAnim is one GEOA record: per-geoset alpha and color animation.
type GeosetAnim struct {
	Alpha     float32
	ColorAnim ColorAnimation
	Color     [3]float32
	GeosetID  int32
	Tracks    []Track
}

// Object is the common shape of every positioned node kind: name, numeric
// id, parent id and the transform/visibility tracks read from the shared
// header. Kind-specific fields and flags live on the wrapping record types.
type Object struct {
	Name     string
	ObjectID int32
	ParentID int32 // NoParent at the hierarchy root
	Tracks   []Track
}

// Bone is a skeleton node bound to a geoset and geoset animation.
type Bone struct {
	Object
	Flags        NodeFlags
	GeosetID     int32
	GeosetAnimID int32
}

// Helper is a positioned node with no fields beyond the common header.
type Helper struct {
	Object
	Flags NodeFlags
}

// LightType is the kind of a light source.
type LightType int32

const (
	LightOmnidirectional LightType = 0
	LightDirectional     LightType = 1
	LightAmbient         LightType = 2
)

// String returns a human-readable light type name.
func (t LightType) String() string {
	switch t {
	case LightOmnidirectional:
		return "Omnidirectional"
	case LightDirectional:
		return "Directional"
	case LightAmbient:
		return "Ambient"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(t))
	}
}

// Light is a LITE record.
type Light struct {
	Object
	Flags            NodeFlags
	Type             LightType
	Attenuation      [2]float32 // start, end
	Color            [3]float32
	Intensity        float32
	AmbientColor     [3]float32
	AmbientIntensity float32
}

// Attachment is an ATCH record: a named anchor point, optionally with an
// attached model path.
type Attachment struct {
	Object
	Flags        NodeFlags
	Path         string
	AttachmentID int32
}

// ParticleEmitter is a PREM record (v1 emitters, spawning model instances).
type ParticleEmitter struct {
	Object
	Flags        EmitterFlags
	EmissionRate float32
	Gravity      float32
	Longitude    float32
	Latitude     float32
	ModelPath    string
	LifeSpan     float32
	InitVelocity float32
}

// FilterMode is the blend mode of a v2 particle emitter.
type FilterMode int32

const (
	FilterBlend      FilterMode = 0
	FilterAdditive   FilterMode = 1
	FilterModulate   FilterMode = 2
	FilterModulate2x FilterMode = 3
	FilterAlphaKey   FilterMode = 4
)

// String returns a human-readable filter mode name.
func (f FilterMode) String() string {
	switch f {
	case FilterBlend:
		return "Blend"
	case FilterAdditive:
		return "Additive"
	case FilterModulate:
		return "Modulate"
	case FilterModulate2x:
		return "Modulate2x"
	case FilterAlphaKey:
		return "AlphaKey"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(f))
	}
}

// TailMode selects head/tail rendering of v2 emitter particles.
type TailMode int32

const (
	TailModeHead TailMode = 0
	TailModeTail TailMode = 1
	TailModeBoth TailMode = 2
)

// String returns a human-readable tail mode name.
func (t TailMode) String() string {
	switch t {
	case TailModeHead:
		return "Head"
	case TailModeTail:
		return "Tail"
	case TailModeBoth:
		return "Both"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(t))
	}
}

// ParticleEmitter2 is a PRE2 record (v2 billboard/quad emitters).
type ParticleEmitter2 struct {
	Object
	Flags           Emitter2Flags
	Speed           float32
	Variation       float32
	Latitude        float32
	Gravity         float32
	LifeSpan        float32
	EmissionRate    float32
	Length          float32
	Width           float32
	FilterMode      FilterMode
	Rows            int32
	Columns         int32
	TailMode        TailMode
	TailLength      float32
	Time            float32
	SegmentColor    [3][3]float32
	Alpha           [3]uint8
	Scaling         [3]float32
	LifeSpanUVAnim  [3]int32
	DecayUVAnim     [3]int32
	TailUVAnim      [3]int32
	TailDecayUVAnim [3]int32
	TextureID       int32
	Squirt          bool
	PriorityPlane   int32
	ReplaceableID   int32
}

// TotalVertexCount returns the vertex count summed over all geosets.
func (m *Model) TotalVertexCount() int {
	total := 0
	for _, g := range m.Geosets {
		total += len(g.Vertices)
	}
	return total
}

// TotalPrimitiveCount returns the primitive-group count summed over all
// geosets.
func (m *Model) TotalPrimitiveCount() int {
	total := 0
	for _, g := range m.Geosets {
		total += len(g.Primitives)
	}
	return total
}

// BoneByObjectID returns the bone with the given object id, or nil.
func (m *Model) BoneByObjectID(id int32) *Bone {
	for i := range m.Bones {
		if m.Bones[i].ObjectID == id {
			return &m.Bones[i]
		}
	}
	return nil
}

// SequenceByName returns the sequence with the given name, or nil.
func (m *Model) SequenceByName(name string) *Sequence {
	for i := range m.Sequences {
		if m.Sequences[i].Name == name {
			return &m.Sequences[i]
		}
	}
	return nil
}

// HasAnimation reports whether any node or layer carries animation tracks.
func (m *Model) HasAnimation() bool {
	if len(m.GeosetAnims) > 0 || len(m.TextureAnims) > 0 {
		return true
	}
	for _, b := range m.Bones {
		if len(b.Tracks) > 0 {
			return true
		}
	}
	for _, h := range m.Helpers {
		if len(h.Tracks) > 0 {
			return true
		}
	}
	return false
}
