package mdx

import "strings"

// Flag vocabularies. Bit values are fixed by the format and differ by record
// kind: generic positioned objects, v1 particle emitters and v2 particle
// emitters each interpret the header bitmask against their own table.

// NodeFlags is the generic positioned-object flag vocabulary.
type NodeFlags uint32

const (
	NodeDontInheritTranslation NodeFlags = 0x00000001
	NodeDontInheritRotation    NodeFlags = 0x00000002
	NodeDontInheritScaling     NodeFlags = 0x00000004
	NodeBillboarded            NodeFlags = 0x00000008
	NodeBillboardedLockX       NodeFlags = 0x00000010
	NodeBillboardedLockY       NodeFlags = 0x00000020
	NodeBillboardedLockZ       NodeFlags = 0x00000040
	NodeCameraAnchored         NodeFlags = 0x00000080
)

// Has reports whether all bits of flag are set.
func (f NodeFlags) Has(flag NodeFlags) bool {
	return f&flag == flag
}

// String lists the set flag names.
func (f NodeFlags) String() string {
	names := []struct {
		bit  NodeFlags
		name string
	}{
		{NodeDontInheritTranslation, "DontInheritTranslation"},
		{NodeDontInheritRotation, "DontInheritRotation"},
		{NodeDontInheritScaling, "DontInheritScaling"},
		{NodeBillboarded, "Billboarded"},
		{NodeBillboardedLockX, "BillboardedLockX"},
		{NodeBillboardedLockY, "BillboardedLockY"},
		{NodeBillboardedLockZ, "BillboardedLockZ"},
		{NodeCameraAnchored, "CameraAnchored"},
	}
	var set []string
	for _, n := range names {
		if f.Has(n.bit) {
			set = append(set, n.name)
		}
	}
	if len(set) == 0 {
		return "None"
	}
	return strings.Join(set, "|")
}

// EmitterFlags is the v1 particle emitter flag vocabulary. The low byte
// shares the generic object bits; the emitter-specific bits select the
// spawned particle source.
type EmitterFlags uint32

const (
	EmitterUsesMDL EmitterFlags = 0x00008000
	EmitterUsesTGA EmitterFlags = 0x00010000
)

// Has reports whether all bits of flag are set.
func (f EmitterFlags) Has(flag EmitterFlags) bool {
	return f&flag == flag
}

// Emitter2Flags is the v2 particle emitter flag vocabulary. The low byte
// shares the generic object bits.
type Emitter2Flags uint32

const (
	Emitter2Unshaded      Emitter2Flags = 0x00008000
	Emitter2SortPrimsFarZ Emitter2Flags = 0x00010000
	Emitter2LineEmitter   Emitter2Flags = 0x00020000
	Emitter2Unfogged      Emitter2Flags = 0x00040000
	Emitter2ModelSpace    Emitter2Flags = 0x00080000
	Emitter2XYQuad        Emitter2Flags = 0x00100000
)

// Has reports whether all bits of flag are set.
func (f Emitter2Flags) Has(flag Emitter2Flags) bool {
	return f&flag == flag
}

// objectHeaderSize is the fixed byte width of the common node header: the
// 4-byte content length, the 80-byte name and three 4-byte integers.
const objectHeaderSize = 96

// readObject decodes the header every positioned object shares, then its
// trailing transform/visibility tracks until the declared content length is
// exhausted. It returns the raw flag bitmask for the caller to interpret
// against its own vocabulary, and the total byte count the object occupied
// so wrappers can account for their trailing fixed fields and tracks.
func (d *decoder) readObject() (Object, uint32, int, error) {
	k := int(d.r.int32())
	obj := Object{
		Name:     d.r.fixedString(80),
		ObjectID: d.r.int32(),
		ParentID: d.r.int32(),
	}
	flags := uint32(d.r.int32())
	if d.r.err != nil {
		return Object{}, 0, 0, d.r.err
	}
	if k < 0 {
		return Object{}, 0, 0, &NegativeLengthError{Length: int32(k)}
	}
	if k < objectHeaderSize {
		return Object{}, 0, 0, &OverrunError{Context: "object", Consumed: objectHeaderSize, Declared: k}
	}

	for j := objectHeaderSize; j < k; {
		tr, m, err := d.readNodeTrack()
		if err != nil {
			return Object{}, 0, 0, err
		}
		obj.Tracks = append(obj.Tracks, tr)
		j += m
		if j > k {
			return Object{}, 0, 0, &OverrunError{Context: "object", Consumed: j, Declared: k}
		}
	}
	return obj, flags, k, nil
}
