package mdx

import (
	"encoding/binary"

	"github.com/Faultbox/mdxkit/pkg/math"
)

// expectTag reads four bytes and requires them to equal want.
func (d *decoder) expectTag(want string) error {
	if got := d.r.tag(); got != want {
		return &TagMismatchError{Expected: want, Actual: got}
	}
	return nil
}

// peekTag checks whether the next four bytes equal want, rewinding and
// leaving the cursor untouched when they do not.
func (d *decoder) peekTag(want string) bool {
	got := d.r.bytes(4)
	if string(got) == want {
		return true
	}
	d.r.seekBack(len(got))
	return false
}

// readBlock reads a signed 32-bit length and returns exactly that many
// following bytes. The tag is only used for error context; it has already
// been consumed.
func (d *decoder) readBlock(tag string) ([]byte, error) {
	n := d.r.int32()
	if d.r.err != nil {
		return nil, d.r.err
	}
	if n < 0 {
		return nil, &NegativeLengthError{Tag: tag, Length: n}
	}
	buf := d.r.bytes(int(n))
	if len(buf) != int(n) {
		return nil, ErrTruncated
	}
	return buf, nil
}

// readMultiblock reads a framed block holding a run of records whose first
// four bytes are the record's total byte length, that length field included.
// Each record body is decoded inside its own bounded region; fn receives the
// body size in bytes. The per-record lengths must tile the block exactly. In
// optional mode an absent tag yields zero records with the cursor untouched.
func (d *decoder) readMultiblock(tag string, optional bool, fn func(maxBytes int) error) error {
	if optional {
		if !d.peekTag(tag) {
			return nil
		}
	} else if err := d.expectTag(tag); err != nil {
		return err
	}

	buf, err := d.readBlock(tag)
	if err != nil {
		return err
	}

	for i := 0; i < len(buf); {
		if len(buf)-i < 4 {
			return ErrTruncated
		}
		m := int(int32(binary.LittleEndian.Uint32(buf[i:])))
		if m < 4 {
			return &NegativeLengthError{Tag: tag, Length: int32(m)}
		}
		if i+m > len(buf) {
			return ErrTruncated
		}
		d.r.push(buf[i+4 : i+m])
		err := fn(m - 4)
		d.r.pop()
		if err != nil {
			return err
		}
		i += m
	}
	return nil
}

// vectorCount reads the tag-plus-count prologue shared by all vector lists.
func (d *decoder) vectorCount(tag string) (int, error) {
	if err := d.expectTag(tag); err != nil {
		return 0, err
	}
	n := d.r.int32()
	if d.r.err != nil {
		return 0, d.r.err
	}
	if n < 0 {
		return 0, &NegativeLengthError{Tag: tag, Length: n}
	}
	return int(n), nil
}

// listCap bounds a list pre-allocation by the bytes left in the current
// region. The count is untrusted input: a hostile value must fail on
// ErrTruncated, not allocate gigabytes first.
func (d *decoder) listCap(n, elemSize int) int {
	if limit := d.r.remaining() / elemSize; n > limit {
		return limit
	}
	return n
}

func (d *decoder) readVec3List(tag string) ([]math.Vec3, error) {
	n, err := d.vectorCount(tag)
	if err != nil {
		return nil, err
	}
	out := make([]math.Vec3, 0, d.listCap(n, 12))
	for i := 0; i < n && d.r.err == nil; i++ {
		out = append(out, d.r.vec3())
	}
	return out, d.r.err
}

func (d *decoder) readVec2List(tag string) ([]math.Vec2, error) {
	n, err := d.vectorCount(tag)
	if err != nil {
		return nil, err
	}
	out := make([]math.Vec2, 0, d.listCap(n, 8))
	for i := 0; i < n && d.r.err == nil; i++ {
		out = append(out, d.r.vec2())
	}
	return out, d.r.err
}

func (d *decoder) readInt32List(tag string) ([]int32, error) {
	n, err := d.vectorCount(tag)
	if err != nil {
		return nil, err
	}
	out := make([]int32, 0, d.listCap(n, 4))
	for i := 0; i < n && d.r.err == nil; i++ {
		out = append(out, d.r.int32())
	}
	return out, d.r.err
}

func (d *decoder) readInt16List(tag string) ([]int16, error) {
	n, err := d.vectorCount(tag)
	if err != nil {
		return nil, err
	}
	out := make([]int16, 0, d.listCap(n, 2))
	for i := 0; i < n && d.r.err == nil; i++ {
		out = append(out, d.r.int16())
	}
	return out, d.r.err
}

func (d *decoder) readUint8List(tag string) ([]uint8, error) {
	n, err := d.vectorCount(tag)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, 0, d.listCap(n, 1))
	for i := 0; i < n && d.r.err == nil; i++ {
		out = append(out, d.r.uint8())
	}
	return out, d.r.err
}
