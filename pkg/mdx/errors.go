package mdx

import (
	"errors"
	"fmt"
)

// MDX format errors.
var (
	// ErrNotMDX indicates the input does not start with the MDLX magic.
	ErrNotMDX = errors.New("not an MDX file: missing MDLX magic")

	// ErrTruncated indicates a bounded region ended before a required
	// fixed-width field could be read in full.
	ErrTruncated = errors.New("truncated MDX data")

	// ErrPrimitiveTypeCounts indicates PTYP and PCNT record counts differ.
	ErrPrimitiveTypeCounts = errors.New("geoset: PTYP and PCNT record counts differ")

	// ErrPrimitiveIndexCounts indicates the PCNT totals do not partition the
	// PVTX index list exactly.
	ErrPrimitiveIndexCounts = errors.New("geoset: PCNT totals do not match PVTX index count")

	// ErrMatrixGroupCounts indicates the MTGC totals do not partition the
	// MATS bone index list exactly.
	ErrMatrixGroupCounts = errors.New("geoset: MTGC totals do not match MATS index count")
)

// TagMismatchError indicates a mandatory 4-byte tag was not found where
// expected.
type TagMismatchError struct {
	Expected string
	Actual   string
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("expected %q tag, got %q", e.Expected, e.Actual)
}

// NegativeLengthError indicates a block or record declared a negative byte
// length.
type NegativeLengthError struct {
	Tag    string // enclosing tag, empty if unknown
	Length int32
}

func (e *NegativeLengthError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("negative block length %d", e.Length)
	}
	return fmt.Sprintf("%q block: negative length %d", e.Tag, e.Length)
}

// UnknownTrackTagError indicates a trailing animation-track tag not in the
// recognized set for its context.
type UnknownTrackTagError struct {
	Context string // e.g. "object", "layer", "light"
	Tag     string
}

func (e *UnknownTrackTagError) Error() string {
	return fmt.Sprintf("unknown %s track tag %q", e.Context, e.Tag)
}

// OverrunError reports a record whose declared byte length disagrees with
// the bytes its content actually spans: the trailing track list ran past
// the declared end, or the declaration is shorter than the fixed fields.
type OverrunError struct {
	Context  string
	Consumed int
	Declared int
}

func (e *OverrunError) Error() string {
	return fmt.Sprintf("%s record: content spans %d bytes of %d declared",
		e.Context, e.Consumed, e.Declared)
}
