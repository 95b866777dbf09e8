package hive

import (
	"fmt"

	"github.com/joshuapare/regkeyitem/internal/format"
)

// Hive is an opened, read-only registry hive: a flat byte slice (memory-mapped
// where the platform allows it) plus the parsed REGF base block. Every other
// type in this package (NK, SK, LF/LH/LI/RI, ValueList, Cell, HBIN) is a
// zero-copy view into Hive.data — none of them own memory, and none of them
// survive past the next call that can invalidate the backing slice.
type Hive struct {
	data   []byte
	size   int64
	base   *BaseBlock
	closer func() error

	// hbinIndex caches (offset, size) pairs discovered by prior HBIN walks so
	// IndexOf can answer repeated validity probes without re-walking bins it
	// has already seen. Built lazily, monotonically grown.
	hbinIndex []hbinSpan
}

type hbinSpan struct {
	start uint32
	end   uint32
}

// HBINStart returns the absolute file offset where the HBIN area begins.
// In on-disk Windows hives this is always 0x1000 (4096).
func (h *Hive) HBINStart() uint32 {
	return uint32(format.HeaderSize)
}

// RootOffset returns the ABSOLUTE file offset of the root NK cell.
// The REGF header stores this as an offset *relative* to the HBIN start (0x1000),
// so we must add the HBIN start to it.
func (h *Hive) RootOffset() uint32 {
	if h == nil || h.base == nil {
		return 0
	}
	rel := h.base.RootCellOffset() // e.g. 0x20
	return uint32(format.HeaderSize) + rel
}

// RootCellOffset returns the NK root pointer RELATIVE TO 0x1000.
func (h *Hive) RootCellOffset() uint32 {
	if h.base == nil {
		return 0
	}
	return h.base.RootCellOffset()
}

// ResolveCellPayload resolves a relative cell offset and returns the payload bytes.
// This skips the 4-byte cell size header and returns just the payload data.
func (h *Hive) ResolveCellPayload(relOff uint32) ([]byte, error) {
	return resolveRelCellPayload(h.Bytes(), relOff)
}

// Get implements the keyitem.CellSource contract: it resolves a relative
// HCELL offset to the cell's payload bytes, borrowed from the hive's backing
// buffer. The returned slice is valid only until the Hive is closed.
func (h *Hive) Get(relOff uint32) ([]byte, error) {
	return resolveRelCellPayload(h.Bytes(), relOff)
}

func (h *Hive) Bytes() []byte { return h.data }

func (h *Hive) Size() int64 { return h.size }

// HBINs returns an iterator over all HBINs, starting at 0x1000.
func (h *Hive) HBINs() (*HBINIterator, error) {
	start := h.HBINStart()
	if int(start) > len(h.data) {
		return nil, fmt.Errorf("hive: HBIN start (%d) beyond file size (%d)", start, len(h.data))
	}
	return &HBINIterator{
		h:    h,
		next: start,
	}, nil
}

// IndexOf reports whether relOff names a byte range that falls inside some
// HBIN's payload region, and if so returns a stable, implementation-defined
// handle (the bin's ordinal position) a caller can use to detect that two
// offsets share a bin without re-walking the hive. It never resolves the
// cell header itself — it is a pure membership probe, grounded on the
// walk ParseHBINAt already performs during iteration.
//
// IndexOf answers false for offset 0 and for anything past the last bin
// the hive reports, including offsets that land inside a bin's header
// rather than its payload.
func (h *Hive) IndexOf(relOff uint32) (int, bool) {
	if relOff == 0 || h == nil {
		return 0, false
	}
	abs := h.HBINStart() + relOff
	if idx := h.hbinIndexContaining(abs); idx >= 0 {
		return idx, true
	}
	if !h.extendHBINIndex(abs) {
		return 0, false
	}
	idx := h.hbinIndexContaining(abs)
	return idx, idx >= 0
}

func (h *Hive) hbinIndexContaining(abs uint32) int {
	for i, span := range h.hbinIndex {
		if abs >= span.start && abs < span.end {
			return i
		}
	}
	return -1
}

// extendHBINIndex walks forward from the last cached bin until it either
// covers abs or runs out of bins, growing hbinIndex as it goes.
func (h *Hive) extendHBINIndex(abs uint32) bool {
	next := h.HBINStart()
	if n := len(h.hbinIndex); n > 0 {
		next = h.hbinIndex[n-1].end
	}
	for {
		hb, err := ParseHBINAt(h.data, next)
		if err != nil {
			return false
		}
		start, end := hb.FirstCellAbs(), hb.EndAbs()
		h.hbinIndex = append(h.hbinIndex, hbinSpan{start: start, end: end})
		if abs >= start && abs < end {
			return true
		}
		next = hb.EndAbs()
		if next <= hb.Offset {
			return false // no forward progress; malformed size already rejected by ParseHBINAt
		}
	}
}
