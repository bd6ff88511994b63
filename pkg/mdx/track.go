package mdx

import (
	"fmt"

	"github.com/Faultbox/mdxkit/pkg/math"
)

// InterpKind is the keyframe interpolation mode of a track.
type InterpKind int32

const (
	InterpNone InterpKind = iota
	InterpLinear
	InterpHermite
	InterpBezier
)

// String returns a human-readable interpolation name.
func (k InterpKind) String() string {
	switch k {
	case InterpNone:
		return "None"
	case InterpLinear:
		return "Linear"
	case InterpHermite:
		return "Hermite"
	case InterpBezier:
		return "Bezier"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(k))
	}
}

// HasTangents reports whether keyframes of this kind carry tangent pairs.
func (k InterpKind) HasTangents() bool {
	return k == InterpHermite || k == InterpBezier
}

// Channel identifies the animated property a track targets.
type Channel int

const (
	ChannelNodeTranslation Channel = iota
	ChannelNodeRotation
	ChannelNodeScaling
	ChannelNodeVisibility
	ChannelMaterialAlpha
	ChannelMaterialTexture
	ChannelTextureAnimTranslation
	ChannelTextureAnimRotation
	ChannelTextureAnimScaling
	ChannelGeosetAnimAlpha
	ChannelGeosetAnimColor
	ChannelLightVisibility
	ChannelLightColor
	ChannelLightIntensity
	ChannelLightAmbientColor
	ChannelLightAmbientIntensity
	ChannelAttachmentVisibility
	ChannelEmitterVisibility
	ChannelEmitter2Speed
	ChannelEmitter2Latitude
	ChannelEmitter2EmissionRate
	ChannelEmitter2Visibility
	ChannelEmitter2Length
	ChannelEmitter2Width
)

var channelNames = map[Channel]string{
	ChannelNodeTranslation:        "NodeTranslation",
	ChannelNodeRotation:           "NodeRotation",
	ChannelNodeScaling:            "NodeScaling",
	ChannelNodeVisibility:         "NodeVisibility",
	ChannelMaterialAlpha:          "MaterialAlpha",
	ChannelMaterialTexture:        "MaterialTexture",
	ChannelTextureAnimTranslation: "TextureAnimTranslation",
	ChannelTextureAnimRotation:    "TextureAnimRotation",
	ChannelTextureAnimScaling:     "TextureAnimScaling",
	ChannelGeosetAnimAlpha:        "GeosetAnimAlpha",
	ChannelGeosetAnimColor:        "GeosetAnimColor",
	ChannelLightVisibility:        "LightVisibility",
	ChannelLightColor:             "LightColor",
	ChannelLightIntensity:         "LightIntensity",
	ChannelLightAmbientColor:      "LightAmbientColor",
	ChannelLightAmbientIntensity:  "LightAmbientIntensity",
	ChannelAttachmentVisibility:   "AttachmentVisibility",
	ChannelEmitterVisibility:      "EmitterVisibility",
	ChannelEmitter2Speed:          "Emitter2Speed",
	ChannelEmitter2Latitude:       "Emitter2Latitude",
	ChannelEmitter2EmissionRate:   "Emitter2EmissionRate",
	ChannelEmitter2Visibility:     "Emitter2Visibility",
	ChannelEmitter2Length:         "Emitter2Length",
	ChannelEmitter2Width:          "Emitter2Width",
}

// String returns the channel name.
func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(c))
}

// shape describes the wire form of a track's keyframe values.
type shape struct {
	arity   int
	integer bool
}

var (
	scalarShape = shape{arity: 1}
	intShape    = shape{arity: 1, integer: true}
	vec3Shape   = shape{arity: 3}
	quatShape   = shape{arity: 4}
)

// Track is one decoded animation channel: ordered keyframes for a single
// target property.
type Track struct {
	Channel     Channel
	Interp      InterpKind
	GlobalSeqID int32 // -1 when the track loops on its sequence timeline
	Keys        []Keyframe
}

// Keyframe is a single key of a Track. Value arity is fixed by the track's
// channel; TanIn and TanOut are nil unless the interpolation kind is Hermite
// or Bezier, in which case both have the value's arity.
type Keyframe struct {
	Frame  int32
	Value  []float32
	TanIn  []float32
	TanOut []float32
}

// Scalar returns the value of a 1-arity keyframe.
func (k Keyframe) Scalar() float32 {
	return k.Value[0]
}

// Vec3 returns the value of a 3-arity keyframe.
func (k Keyframe) Vec3() math.Vec3 {
	return math.Vec3{X: k.Value[0], Y: k.Value[1], Z: k.Value[2]}
}

// Quat returns the value of a 4-arity rotation keyframe.
func (k Keyframe) Quat() math.Quat {
	return math.Quat{X: k.Value[0], Y: k.Value[1], Z: k.Value[2], W: k.Value[3]}
}

// trackHeaderSize is the byte width of a track up to its first key: the
// 4-byte tag plus key count, interpolation kind and global-sequence id.
const trackHeaderSize = 16

// readTrack decodes a track whose tag has already been consumed and returns
// the total bytes it occupied, tag included. Callers accumulate that count
// against the parent record's declared length; a track list has no
// terminator of its own.
func (d *decoder) readTrack(ch Channel, sh shape) (Track, int, error) {
	nkeys := d.r.int32()
	interp := InterpKind(d.r.int32())
	gsid := d.r.int32()
	if d.r.err != nil {
		return Track{}, 0, d.r.err
	}

	tr := Track{Channel: ch, Interp: interp, GlobalSeqID: gsid}
	n := trackHeaderSize

	for i := int32(0); i < nkeys; i++ {
		key := Keyframe{Frame: d.r.int32(), Value: d.readValues(sh)}
		n += 4 + 4*sh.arity
		if interp.HasTangents() {
			key.TanIn = d.readValues(sh)
			key.TanOut = d.readValues(sh)
			n += 8 * sh.arity
		}
		if d.r.err != nil {
			return Track{}, 0, d.r.err
		}
		tr.Keys = append(tr.Keys, key)
	}
	return tr, n, nil
}

// readValues reads one value tuple. Integer-valued channels (texture index)
// are stored on the wire as int32 and held as float32; texture indices are
// small, so the conversion is exact.
func (d *decoder) readValues(sh shape) []float32 {
	out := make([]float32, sh.arity)
	for i := range out {
		if sh.integer {
			out[i] = float32(d.r.int32())
		} else {
			out[i] = d.r.float32()
		}
	}
	return out
}

func (d *decoder) readNodeTrack() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KGTR":
		return d.readTrack(ChannelNodeTranslation, vec3Shape)
	case "KGRT":
		return d.readTrack(ChannelNodeRotation, quatShape)
	case "KGSC":
		return d.readTrack(ChannelNodeScaling, vec3Shape)
	case "KATV":
		return d.readTrack(ChannelNodeVisibility, scalarShape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "object", Tag: tag}
	}
}

func (d *decoder) readLayerTrack() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KMTA":
		return d.readTrack(ChannelMaterialAlpha, scalarShape)
	case "KMTF":
		return d.readTrack(ChannelMaterialTexture, intShape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "layer", Tag: tag}
	}
}

func (d *decoder) readTextureAnimTrack() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KTAT":
		return d.readTrack(ChannelTextureAnimTranslation, vec3Shape)
	case "KTAR":
		return d.readTrack(ChannelTextureAnimRotation, vec3Shape)
	case "KTAS":
		return d.readTrack(ChannelTextureAnimScaling, vec3Shape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "texture animation", Tag: tag}
	}
}

func (d *decoder) readGeosetAnimTrack() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KGAO":
		return d.readTrack(ChannelGeosetAnimAlpha, scalarShape)
	case "KGAC":
		return d.readTrack(ChannelGeosetAnimColor, vec3Shape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "geoset animation", Tag: tag}
	}
}

func (d *decoder) readLightTrack() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KLAV":
		return d.readTrack(ChannelLightVisibility, scalarShape)
	case "KLAC":
		return d.readTrack(ChannelLightColor, vec3Shape)
	case "KLAI":
		return d.readTrack(ChannelLightIntensity, scalarShape)
	case "KLBC":
		return d.readTrack(ChannelLightAmbientColor, vec3Shape)
	case "KLBI":
		return d.readTrack(ChannelLightAmbientIntensity, scalarShape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "light", Tag: tag}
	}
}

func (d *decoder) readAttachmentTrack() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KATV":
		return d.readTrack(ChannelAttachmentVisibility, scalarShape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "attachment", Tag: tag}
	}
}

func (d *decoder) readEmitterTrack() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KPEV":
		return d.readTrack(ChannelEmitterVisibility, scalarShape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "particle emitter", Tag: tag}
	}
}

func (d *decoder) readEmitter2Track() (Track, int, error) {
	switch tag := d.r.tag(); tag {
	case "KP2S":
		return d.readTrack(ChannelEmitter2Speed, scalarShape)
	case "KP2L":
		return d.readTrack(ChannelEmitter2Latitude, scalarShape)
	case "KP2E":
		return d.readTrack(ChannelEmitter2EmissionRate, scalarShape)
	case "KP2V":
		return d.readTrack(ChannelEmitter2Visibility, scalarShape)
	case "KP2N":
		return d.readTrack(ChannelEmitter2Length, scalarShape)
	case "KP2W":
		return d.readTrack(ChannelEmitter2Width, scalarShape)
	default:
		return Track{}, 0, &UnknownTrackTagError{Context: "particle emitter 2", Tag: tag}
	}
}
