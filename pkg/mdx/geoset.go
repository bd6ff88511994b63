package mdx

import (
	"fmt"

	"github.com/Faultbox/mdxkit/pkg/math"
)

// PrimitiveType is the topology of one primitive group.
type PrimitiveType int32

const (
	PrimitivePoints        PrimitiveType = 0
	PrimitiveLines         PrimitiveType = 1
	PrimitiveLineLoop      PrimitiveType = 2
	PrimitiveLineStrip     PrimitiveType = 3
	PrimitiveTriangles     PrimitiveType = 4
	PrimitiveTriangleStrip PrimitiveType = 5
	PrimitiveTriangleFan   PrimitiveType = 6
	PrimitiveQuads         PrimitiveType = 7
	PrimitiveQuadStrip     PrimitiveType = 8
	PrimitivePolygon       PrimitiveType = 9
)

// String returns a human-readable primitive type name.
func (t PrimitiveType) String() string {
	switch t {
	case PrimitivePoints:
		return "Points"
	case PrimitiveLines:
		return "Lines"
	case PrimitiveLineLoop:
		return "LineLoop"
	case PrimitiveLineStrip:
		return "LineStrip"
	case PrimitiveTriangles:
		return "Triangles"
	case PrimitiveTriangleStrip:
		return "TriangleStrip"
	case PrimitiveTriangleFan:
		return "TriangleFan"
	case PrimitiveQuads:
		return "Quads"
	case PrimitiveQuadStrip:
		return "QuadStrip"
	case PrimitivePolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(t))
	}
}

// Primitives is one primitive group: a topology and its vertex indices.
type Primitives struct {
	Type    PrimitiveType
	Indices []int16
}

// GeosetAttributes carries a geoset's material binding and selection state.
type GeosetAttributes struct {
	MaterialID     int32
	SelectionGroup int32
	Selectable     bool
}

// GAnimation is a bounding volume: the default one plus one per global
// sequence.
type GAnimation struct {
	BoundsRadius float32
	MinExtent    math.Vec3
	MaxExtent    math.Vec3
}

// Geoset is one GEOS record: a mesh with skinning groups, material
// attributes, bounding volumes and UV sets.
type Geoset struct {
	Vertices     []math.Vec3
	Normals      []math.Vec3
	Primitives   []Primitives
	VertexGroups []uint8   // per-vertex matrix group index
	Groups       [][]int32 // matrix groups: bone index lists
	Attributes   GeosetAttributes
	DefaultAnim  GAnimation
	Anims        []GAnimation
	TexCoordSets [][]math.Vec2 // UV sets, each aligned with Vertices
}

// unselectableAttr is the attribute value marking a geoset unselectable.
const unselectableAttr = 4

// readGeoset decodes one GEOS record. The record declares its own byte
// length, but its body is a fixed sequence of tagged sections, so the
// dispatcher's size argument is not needed.
func (d *decoder) readGeoset(_ int) error {
	g := Geoset{}
	var err error

	if g.Vertices, err = d.readVec3List("VRTX"); err != nil {
		return err
	}
	if g.Normals, err = d.readVec3List("NRMS"); err != nil {
		return err
	}
	if g.Primitives, err = d.readPrimitives(); err != nil {
		return err
	}
	if g.VertexGroups, err = d.readUint8List("GNDX"); err != nil {
		return err
	}
	if g.Groups, err = d.readGroups(); err != nil {
		return err
	}

	g.Attributes = GeosetAttributes{
		MaterialID:     d.r.int32(),
		SelectionGroup: d.r.int32(),
		Selectable:     d.r.int32() != unselectableAttr,
	}

	g.DefaultAnim = d.readGAnimation()
	nanims := d.r.int32()
	if d.r.err != nil {
		return d.r.err
	}
	for i := int32(0); i < nanims; i++ {
		a := d.readGAnimation()
		if d.r.err != nil {
			return d.r.err
		}
		g.Anims = append(g.Anims, a)
	}

	if g.TexCoordSets, err = d.readTexCoordSets(); err != nil {
		return err
	}

	d.model.Geosets = append(d.model.Geosets, g)
	return nil
}

// readPrimitives reads the PTYP/PCNT/PVTX triple and partitions the flat
// index list into per-primitive groups by the count list.
func (d *decoder) readPrimitives() ([]Primitives, error) {
	ptypes, err := d.readInt32List("PTYP")
	if err != nil {
		return nil, err
	}
	pcounts, err := d.readInt32List("PCNT")
	if err != nil {
		return nil, err
	}
	if len(ptypes) != len(pcounts) {
		return nil, ErrPrimitiveTypeCounts
	}

	indices, err := d.readInt16List("PVTX")
	if err != nil {
		return nil, err
	}

	prims := make([]Primitives, len(ptypes))
	offset := 0
	for i, n := range pcounts {
		if n < 0 || offset+int(n) > len(indices) {
			return nil, ErrPrimitiveIndexCounts
		}
		prims[i] = Primitives{
			Type:    PrimitiveType(ptypes[i]),
			Indices: indices[offset : offset+int(n)],
		}
		offset += int(n)
	}
	if offset != len(indices) {
		return nil, ErrPrimitiveIndexCounts
	}
	return prims, nil
}

// readGroups reads the MTGC/MATS pair and partitions the flat bone index
// list into matrix groups by the size list.
func (d *decoder) readGroups() ([][]int32, error) {
	sizes, err := d.readInt32List("MTGC")
	if err != nil {
		return nil, err
	}
	bones, err := d.readInt32List("MATS")
	if err != nil {
		return nil, err
	}

	groups := make([][]int32, len(sizes))
	offset := 0
	for i, n := range sizes {
		if n < 0 || offset+int(n) > len(bones) {
			return nil, ErrMatrixGroupCounts
		}
		groups[i] = bones[offset : offset+int(n)]
		offset += int(n)
	}
	if offset != len(bones) {
		return nil, ErrMatrixGroupCounts
	}
	return groups, nil
}

func (d *decoder) readGAnimation() GAnimation {
	return GAnimation{
		BoundsRadius: d.r.float32(),
		MinExtent:    d.r.vec3(),
		MaxExtent:    d.r.vec3(),
	}
}

// readTexCoordSets reads the UVAS set count followed by that many UVBS
// vector lists.
func (d *decoder) readTexCoordSets() ([][]math.Vec2, error) {
	if err := d.expectTag("UVAS"); err != nil {
		return nil, err
	}
	n := d.r.int32()
	if d.r.err != nil {
		return nil, d.r.err
	}
	if n < 0 {
		return nil, &NegativeLengthError{Tag: "UVAS", Length: n}
	}

	// Every set carries at least a UVBS tag and count, which bounds a
	// hostile set count before anything is allocated for it.
	sets := make([][]math.Vec2, 0, d.listCap(int(n), 8))
	for i := int32(0); i < n; i++ {
		uvs, err := d.readVec2List("UVBS")
		if err != nil {
			return nil, err
		}
		sets = append(sets, uvs)
	}
	return sets, nil
}
