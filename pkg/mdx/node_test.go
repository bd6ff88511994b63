package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeFlagsString(t *testing.T) {
	tests := []struct {
		flags NodeFlags
		want  string
	}{
		{0, "None"},
		{NodeBillboarded, "Billboarded"},
		{NodeDontInheritTranslation | NodeDontInheritRotation, "DontInheritTranslation|DontInheritRotation"},
		{NodeBillboardedLockZ | NodeCameraAnchored, "BillboardedLockZ|CameraAnchored"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.String())
		})
	}
}

func TestFlagHas(t *testing.T) {
	f := NodeBillboarded | NodeDontInheritScaling
	assert.True(t, f.Has(NodeBillboarded))
	assert.True(t, f.Has(NodeBillboarded|NodeDontInheritScaling))
	assert.False(t, f.Has(NodeCameraAnchored))

	e := EmitterUsesMDL
	assert.True(t, e.Has(EmitterUsesMDL))
	assert.False(t, e.Has(EmitterUsesTGA))

	e2 := Emitter2LineEmitter | Emitter2XYQuad
	assert.True(t, e2.Has(Emitter2XYQuad))
	assert.False(t, e2.Has(Emitter2Unfogged))
}

func TestParseLights(t *testing.T) {
	body := &buf{}
	body.raw(objectBytes("Torch", 3, NoParent, uint32(NodeBillboarded)))
	body.i32(int32(LightOmnidirectional))
	body.f32(80, 200)      // attenuation start, end
	body.f32(1, 0.8, 0.4)  // color
	body.f32(2)            // intensity
	body.f32(0.1, 0.1, 0)  // ambient color
	body.f32(0.5)          // ambient intensity
	body.raw(trackBytes("KLAV", InterpNone, -1, kf{frame: 0, value: []float32{1}}))

	tf := newTestFile()
	tf.lite = record(body.Bytes())
	m, err := Parse(tf.build())
	require.NoError(t, err)
	require.Len(t, m.Lights, 1)

	l := m.Lights[0]
	assert.Equal(t, "Torch", l.Name)
	assert.Equal(t, int32(3), l.ObjectID)
	assert.Equal(t, int32(NoParent), l.ParentID)
	assert.True(t, l.Flags.Has(NodeBillboarded))
	assert.Equal(t, LightOmnidirectional, l.Type)
	assert.Equal(t, [2]float32{80, 200}, l.Attenuation)
	assert.Equal(t, [3]float32{1, 0.8, 0.4}, l.Color)
	assert.Equal(t, float32(2), l.Intensity)
	assert.Equal(t, float32(0.5), l.AmbientIntensity)
	require.Len(t, l.Tracks, 1)
	assert.Equal(t, ChannelLightVisibility, l.Tracks[0].Channel)
}

func TestParseAttachments(t *testing.T) {
	body := &buf{}
	body.raw(objectBytes("Overhead Ref", 5, 0, 0,
		trackBytes("KGTR", InterpLinear, -1, kf{frame: 0, value: []float32{0, 0, 10}}),
	))
	body.fixed("Units\\Sprite.mdl", 256)
	body.i32(0) // padding
	body.i32(2) // attachment id
	body.raw(trackBytes("KATV", InterpNone, -1, kf{frame: 0, value: []float32{1}}))

	tf := newTestFile()
	tf.atch = record(body.Bytes())
	m, err := Parse(tf.build())
	require.NoError(t, err)
	require.Len(t, m.Attachments, 1)

	a := m.Attachments[0]
	assert.Equal(t, "Overhead Ref", a.Name)
	assert.Equal(t, "Units\\Sprite.mdl", a.Path)
	assert.Equal(t, int32(2), a.AttachmentID)

	// Header tracks and the trailing visibility track land on one list,
	// in wire order.
	require.Len(t, a.Tracks, 2)
	assert.Equal(t, ChannelNodeTranslation, a.Tracks[0].Channel)
	assert.Equal(t, ChannelAttachmentVisibility, a.Tracks[1].Channel)
	assert.Equal(t, float32(10), a.Tracks[0].Keys[0].Vec3().Z)
	assert.Equal(t, float32(1), a.Tracks[1].Keys[0].Scalar())
}

func TestParseEmitters(t *testing.T) {
	body := &buf{}
	body.raw(objectBytes("Sparks", 7, 1, uint32(EmitterUsesMDL)))
	body.f32(12)  // emission rate
	body.f32(-9)  // gravity
	body.f32(0.5) // longitude
	body.f32(1.5) // latitude
	body.fixed("Effects\\Spark.mdl", 256)
	body.f32(2.5) // life span
	body.f32(30)  // initial velocity
	body.raw(trackBytes("KPEV", InterpNone, -1, kf{frame: 0, value: []float32{1}}))

	tf := newTestFile()
	tf.prem = record(body.Bytes())
	m, err := Parse(tf.build())
	require.NoError(t, err)
	require.Len(t, m.Emitters, 1)

	e := m.Emitters[0]
	assert.Equal(t, "Sparks", e.Name)
	assert.True(t, e.Flags.Has(EmitterUsesMDL))
	assert.False(t, e.Flags.Has(EmitterUsesTGA))
	assert.Equal(t, float32(12), e.EmissionRate)
	assert.Equal(t, float32(-9), e.Gravity)
	assert.Equal(t, "Effects\\Spark.mdl", e.ModelPath)
	assert.Equal(t, float32(2.5), e.LifeSpan)
	assert.Equal(t, float32(30), e.InitVelocity)
	require.Len(t, e.Tracks, 1)
	assert.Equal(t, ChannelEmitterVisibility, e.Tracks[0].Channel)
}

func emitter2Tail() *buf {
	b := &buf{}
	b.f32(100, 0.2, 0.7, -5, 1.5, 40, 8, 4)
	b.i32(int32(FilterAdditive))
	b.i32(4, 4) // rows, columns
	b.i32(int32(TailModeBoth))
	b.f32(0.5) // tail length
	b.f32(0.1) // time
	b.f32(1, 0, 0, 0, 1, 0, 0, 0, 1) // segment colors
	b.u8(255, 128, 0)
	b.f32(1, 2, 3) // segment scaling
	b.i32(0, 0, 1, 1, 0, 1, 2, 0, 1, 3, 0, 1) // uv anim triples
	b.i32(6) // texture id
	b.i32(1) // squirt
	b.i32(-2)
	b.i32(0)
	return b
}

func TestParseEmitters2(t *testing.T) {
	body := &buf{}
	body.raw(objectBytes("Dust", 9, 1, uint32(Emitter2Unshaded|Emitter2XYQuad)))
	body.raw(emitter2Tail().Bytes())
	body.raw(trackBytes("KP2E", InterpLinear, 0,
		kf{frame: 0, value: []float32{40}},
		kf{frame: 500, value: []float32{0}},
	))

	tf := newTestFile()
	tf.pre2 = record(body.Bytes())
	m, err := Parse(tf.build())
	require.NoError(t, err)
	require.Len(t, m.Emitters2, 1)

	e := m.Emitters2[0]
	assert.Equal(t, "Dust", e.Name)
	assert.True(t, e.Flags.Has(Emitter2Unshaded))
	assert.True(t, e.Flags.Has(Emitter2XYQuad))
	assert.False(t, e.Flags.Has(Emitter2ModelSpace))

	assert.Equal(t, float32(100), e.Speed)
	assert.Equal(t, float32(0.2), e.Variation)
	assert.Equal(t, FilterAdditive, e.FilterMode)
	assert.Equal(t, int32(4), e.Rows)
	assert.Equal(t, TailModeBoth, e.TailMode)
	assert.Equal(t, [3]float32{1, 0, 0}, e.SegmentColor[0])
	assert.Equal(t, [3]float32{0, 0, 1}, e.SegmentColor[2])
	assert.Equal(t, [3]uint8{255, 128, 0}, e.Alpha)
	assert.Equal(t, [3]float32{1, 2, 3}, e.Scaling)
	assert.Equal(t, [3]int32{0, 0, 1}, e.LifeSpanUVAnim)
	assert.Equal(t, [3]int32{3, 0, 1}, e.TailDecayUVAnim)
	assert.Equal(t, int32(6), e.TextureID)
	assert.True(t, e.Squirt)
	assert.Equal(t, int32(-2), e.PriorityPlane)

	require.Len(t, e.Tracks, 1)
	assert.Equal(t, ChannelEmitter2EmissionRate, e.Tracks[0].Channel)
	assert.Len(t, e.Tracks[0].Keys, 2)
}

// A node whose declared length is shorter than its fixed header can never
// terminate cleanly; the decoder must fail instead of looping.
func TestParseObjectDeclaredTooShort(t *testing.T) {
	b := &buf{}
	b.i32(40) // less than the 96-byte header
	b.fixed("Bad", 80)
	b.i32(0, NoParent, 0)
	b.i32(0, 0) // bone trailer

	tf := newTestFile()
	tf.bone = b.Bytes()
	_, err := Parse(tf.build())

	var overrun *OverrunError
	require.ErrorAs(t, err, &overrun)
	assert.Equal(t, "object", overrun.Context)
	assert.Equal(t, 40, overrun.Declared)
}

// A track that runs past the node's declared length is a framing defect in
// the file, not a decodable state.
func TestParseObjectTrackOverrun(t *testing.T) {
	track := trackBytes("KGTR", InterpLinear, -1,
		kf{frame: 0, value: []float32{0, 0, 0}},
		kf{frame: 1, value: []float32{1, 1, 1}},
	)

	b := &buf{}
	b.i32(int32(objectHeaderSize + len(track) - 8)) // declared short of the track end
	b.fixed("Broken", 80)
	b.i32(0, NoParent, 0)
	b.raw(track)
	b.i32(0, 0)

	tf := newTestFile()
	tf.bone = b.Bytes()
	_, err := Parse(tf.build())

	var overrun *OverrunError
	require.ErrorAs(t, err, &overrun)
	assert.Equal(t, "object", overrun.Context)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "Omnidirectional", LightOmnidirectional.String())
	assert.Equal(t, "Ambient", LightAmbient.String())
	assert.Equal(t, "Unknown(7)", LightType(7).String())

	assert.Equal(t, "Additive", FilterAdditive.String())
	assert.Equal(t, "AlphaKey", FilterAlphaKey.String())
	assert.Equal(t, "Unknown(9)", FilterMode(9).String())

	assert.Equal(t, "Head", TailModeHead.String())
	assert.Equal(t, "Unknown(5)", TailMode(5).String())
}
