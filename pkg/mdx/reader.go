package mdx

import (
	"encoding/binary"
	gomath "math"

	"github.com/Faultbox/mdxkit/pkg/math"
)

// reader is a bounded little-endian cursor over in-memory data. A stack of
// views lets a nested chunk read only within its own declared byte range:
// push carves out a sub-region, pop restores the caller's view exactly.
//
// The reader carries a sticky error. Typed readers (int32, float32, ...)
// require their full width and set ErrTruncated when the current region runs
// out; bytes and fixedString clamp to the region end instead, matching the
// short-read tolerance of the format's fixed-width string fields.
type reader struct {
	stack []view
	err   error
}

type view struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{stack: []view{{buf: buf}}}
}

func (r *reader) top() *view {
	return &r.stack[len(r.stack)-1]
}

// push makes buf the current bounded region until the matching pop.
func (r *reader) push(buf []byte) {
	r.stack = append(r.stack, view{buf: buf})
}

// pop discards the current region and restores the parent view.
func (r *reader) pop() {
	r.stack = r.stack[:len(r.stack)-1]
}

// remaining reports the unread byte count of the current region.
func (r *reader) remaining() int {
	v := r.top()
	return len(v.buf) - v.off
}

// bytes returns up to n bytes, clamped to the current region end.
func (r *reader) bytes(n int) []byte {
	v := r.top()
	if rem := len(v.buf) - v.off; n > rem {
		n = rem
	}
	b := v.buf[v.off : v.off+n]
	v.off += n
	return b
}

// skip advances past n bytes (or to the region end, whichever comes first).
func (r *reader) skip(n int) {
	r.bytes(n)
}

// seekBack rewinds within the current region. Only used to un-read a peeked
// tag; never crosses a region boundary.
func (r *reader) seekBack(n int) {
	v := r.top()
	v.off -= n
	if v.off < 0 {
		v.off = 0
	}
}

// exact returns exactly n bytes or sets ErrTruncated.
func (r *reader) exact(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.remaining() < n {
		r.skip(r.remaining())
		r.err = ErrTruncated
		return nil
	}
	return r.bytes(n)
}

func (r *reader) int32() int32 {
	b := r.exact(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *reader) int16() int16 {
	b := r.exact(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) uint8() uint8 {
	b := r.exact(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) float32() float32 {
	b := r.exact(4)
	if b == nil {
		return 0
	}
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) vec2() math.Vec2 {
	return math.Vec2{X: r.float32(), Y: r.float32()}
}

func (r *reader) vec3() math.Vec3 {
	return math.Vec3{X: r.float32(), Y: r.float32(), Z: r.float32()}
}

// tag reads a 4-byte ASCII tag. A short read at the region end yields the
// partial string; callers compare against full tags, so a partial tag never
// matches and is reported by the caller's own error path.
func (r *reader) tag() string {
	return string(r.bytes(4))
}

// fixedString reads an n-byte field and trims it at the first NUL.
func (r *reader) fixedString(n int) string {
	b := r.bytes(n)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
