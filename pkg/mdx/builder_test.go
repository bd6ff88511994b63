package mdx

import (
	"bytes"
	"encoding/binary"
	gomath "math"
)

// buf builds little-endian MDX byte streams for tests.
type buf struct {
	bytes.Buffer
}

func (b *buf) tag(s string) *buf {
	b.WriteString(s)
	return b
}

func (b *buf) i32(vs ...int32) *buf {
	for _, v := range vs {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v))
		b.Write(tmp[:])
	}
	return b
}

func (b *buf) i16(vs ...int16) *buf {
	for _, v := range vs {
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(v))
		b.Write(tmp[:])
	}
	return b
}

func (b *buf) u8(vs ...uint8) *buf {
	b.Write(vs)
	return b
}

func (b *buf) f32(vs ...float32) *buf {
	for _, v := range vs {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], gomath.Float32bits(v))
		b.Write(tmp[:])
	}
	return b
}

// fixed writes s padded with NULs to width n.
func (b *buf) fixed(s string, n int) *buf {
	b.WriteString(s)
	b.Write(make([]byte, n-len(s)))
	return b
}

// raw appends prebuilt bytes.
func (b *buf) raw(p []byte) *buf {
	b.Write(p)
	return b
}

// block writes tag, the body length and the body.
func block(tag string, body []byte) []byte {
	b := &buf{}
	b.tag(tag).i32(int32(len(body))).raw(body)
	return b.Bytes()
}

// record prefixes body with its self-inclusive record length.
func record(body []byte) []byte {
	b := &buf{}
	b.i32(int32(len(body) + 4)).raw(body)
	return b.Bytes()
}

// kf is a keyframe for trackBytes.
type kf struct {
	frame     int32
	value     []float32
	tin, tout []float32
}

// trackBytes builds a tagged animation track.
func trackBytes(tag string, interp InterpKind, gsid int32, keys ...kf) []byte {
	b := &buf{}
	b.tag(tag).i32(int32(len(keys)), int32(interp), gsid)
	for _, k := range keys {
		b.i32(k.frame).f32(k.value...)
		if interp.HasTangents() {
			b.f32(k.tin...).f32(k.tout...)
		}
	}
	return b.Bytes()
}

// objectBytes builds the common node header plus trailing tracks. The
// declared content length covers the 96-byte header and the tracks.
func objectBytes(name string, id, parent int32, flags uint32, tracks ...[]byte) []byte {
	var trackData []byte
	for _, tr := range tracks {
		trackData = append(trackData, tr...)
	}
	b := &buf{}
	b.i32(int32(objectHeaderSize + len(trackData)))
	b.fixed(name, 80)
	b.i32(id, parent, int32(flags))
	b.raw(trackData)
	return b.Bytes()
}

// modlBytes builds a MODL payload (112 bytes).
func modlBytes(name string, radius float32) []byte {
	b := &buf{}
	b.fixed(name, 80)
	b.f32(radius)
	b.f32(0, 0, 0) // min extent
	b.f32(0, 0, 0) // max extent
	b.i32(0)       // blend time
	return b.Bytes()
}

// testFile assembles a whole MDX stream. Mandatory chunk bodies default to
// empty; optional chunks are omitted unless set.
type testFile struct {
	vers []byte
	modl []byte
	seqs []byte
	glbs []byte // optional
	mtls []byte
	texs []byte
	txan []byte // optional
	geos []byte
	geoa []byte
	bone []byte
	lite []byte // optional
	help []byte // optional
	atch []byte // optional
	pivt []byte
	prem []byte // optional
	pre2 []byte // optional
}

func newTestFile() *testFile {
	return &testFile{
		vers: (&buf{}).i32(800).Bytes(),
		modl: modlBytes("Test", 1.0),
	}
}

func (f *testFile) build() []byte {
	b := &buf{}
	b.tag("MDLX")
	b.raw(block("VERS", f.vers))
	b.raw(block("MODL", f.modl))
	b.raw(block("SEQS", f.seqs))
	if f.glbs != nil {
		b.raw(block("GLBS", f.glbs))
	}
	b.raw(block("MTLS", f.mtls))
	b.raw(block("TEXS", f.texs))
	if f.txan != nil {
		b.raw(block("TXAN", f.txan))
	}
	b.raw(block("GEOS", f.geos))
	b.raw(block("GEOA", f.geoa))
	b.raw(block("BONE", f.bone))
	if f.lite != nil {
		b.raw(block("LITE", f.lite))
	}
	if f.help != nil {
		b.raw(block("HELP", f.help))
	}
	if f.atch != nil {
		b.raw(block("ATCH", f.atch))
	}
	b.raw(block("PIVT", f.pivt))
	if f.prem != nil {
		b.raw(block("PREM", f.prem))
	}
	if f.pre2 != nil {
		b.raw(block("PRE2", f.pre2))
	}
	return b.Bytes()
}
