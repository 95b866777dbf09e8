package testutil

import (
	"encoding/binary"

	"github.com/joshuapare/regkeyitem/internal/format"
)

// FakeCellSource is an in-memory keyitem.CellSource over a map of relative
// offsets to cell payloads, for tests that need to exercise nk/sk/lf/lh/
// li/ri decoding without a real hive file. Grounded on the shape of
// hive.Hive's own Get/IndexOf (hive/hive.go), minus the HBIN bookkeeping:
// here every registered offset is considered valid, and anything else is
// not.
type FakeCellSource struct {
	cells map[uint32][]byte
	order []uint32
}

// NewFakeCellSource builds an empty FakeCellSource.
func NewFakeCellSource() *FakeCellSource {
	return &FakeCellSource{cells: make(map[uint32][]byte)}
}

// Put registers payload as the cell at offset.
func (f *FakeCellSource) Put(offset uint32, payload []byte) {
	if _, exists := f.cells[offset]; !exists {
		f.order = append(f.order, offset)
	}
	f.cells[offset] = payload
}

// Get implements keyitem.CellSource.
func (f *FakeCellSource) Get(offset uint32) ([]byte, error) {
	payload, ok := f.cells[offset]
	if !ok {
		return nil, format.ErrNotFound
	}
	return payload, nil
}

// IndexOf implements keyitem.CellSource: any offset that was Put is valid,
// identified by its registration order.
func (f *FakeCellSource) IndexOf(offset uint32) (int, bool) {
	for i, o := range f.order {
		if o == offset {
			return i, true
		}
	}
	return 0, false
}

// BuildNK returns a synthetic "nk" cell payload with the given field
// values. name is written verbatim (caller picks ASCII vs UTF-16LE and
// sets flags accordingly).
func BuildNK(flags uint16, subkeyCount, subkeyListOffset, valueCount, valueListOffset, securityOffset, classNameOffset uint32, classLen uint16, name []byte) []byte {
	buf := make([]byte, format.NKFixedHeaderSize+len(name))
	copy(buf[:2], format.NKSignature)
	binary.LittleEndian.PutUint16(buf[format.NKFlagsOffset:], flags)
	binary.LittleEndian.PutUint32(buf[format.NKSubkeyCountOffset:], subkeyCount)
	binary.LittleEndian.PutUint32(buf[format.NKSubkeyListOffset:], subkeyListOffset)
	binary.LittleEndian.PutUint32(buf[format.NKValueCountOffset:], valueCount)
	binary.LittleEndian.PutUint32(buf[format.NKValueListOffset:], valueListOffset)
	binary.LittleEndian.PutUint32(buf[format.NKSecurityOffset:], securityOffset)
	binary.LittleEndian.PutUint32(buf[format.NKClassNameOffset:], classNameOffset)
	binary.LittleEndian.PutUint16(buf[format.NKNameLenOffset:], uint16(len(name)))
	binary.LittleEndian.PutUint16(buf[format.NKClassLenOffset:], classLen)
	copy(buf[format.NKNameOffset:], name)
	return buf
}

// BuildSK returns a synthetic "sk" cell payload wrapping descriptor.
func BuildSK(descriptor []byte) []byte {
	buf := make([]byte, format.SKHeaderSize+len(descriptor))
	copy(buf[:2], format.SKSignature)
	binary.LittleEndian.PutUint32(buf[format.SKDescriptorLengthOffset:], uint32(len(descriptor)))
	copy(buf[format.SKHeaderSize:], descriptor)
	return buf
}

// IndexEntry is one (cell offset, hash) pair for BuildLF/BuildLH, or just a
// cell offset (Hash ignored) for BuildLI/BuildRI.
type IndexEntry struct {
	Cell uint32
	Hash uint32
}

// BuildLF returns a synthetic "lf" index cell: 8-byte entries of (cell,
// 4 raw hint bytes taken from the low 4 bytes of Hash, big-endian packed).
func BuildLF(entries []IndexEntry) []byte {
	buf := make([]byte, format.IdxListOffset+len(entries)*format.LFFHEntrySize)
	copy(buf[:2], format.LFSignature)
	binary.LittleEndian.PutUint16(buf[format.IdxCountOffset:], uint16(len(entries)))
	for i, e := range entries {
		off := format.IdxListOffset + i*format.LFFHEntrySize
		binary.LittleEndian.PutUint32(buf[off:], e.Cell)
		buf[off+4] = byte(e.Hash >> 24)
		buf[off+5] = byte(e.Hash >> 16)
		buf[off+6] = byte(e.Hash >> 8)
		buf[off+7] = byte(e.Hash)
	}
	return buf
}

// BuildLH returns a synthetic "lh" index cell: 8-byte entries of (cell,
// uint32 hash).
func BuildLH(entries []IndexEntry) []byte {
	buf := make([]byte, format.IdxListOffset+len(entries)*format.LFFHEntrySize)
	copy(buf[:2], format.LHSignature)
	binary.LittleEndian.PutUint16(buf[format.IdxCountOffset:], uint16(len(entries)))
	for i, e := range entries {
		off := format.IdxListOffset + i*format.LFFHEntrySize
		binary.LittleEndian.PutUint32(buf[off:], e.Cell)
		binary.LittleEndian.PutUint32(buf[off+4:], e.Hash)
	}
	return buf
}

// BuildLI returns a synthetic "li" index cell: 4-byte cell-offset entries.
func BuildLI(cells []uint32) []byte {
	buf := make([]byte, format.IdxListOffset+len(cells)*format.LIEntrySize)
	copy(buf[:2], format.LISignature)
	binary.LittleEndian.PutUint16(buf[format.IdxCountOffset:], uint16(len(cells)))
	for i, c := range cells {
		binary.LittleEndian.PutUint32(buf[format.IdxListOffset+i*format.LIEntrySize:], c)
	}
	return buf
}

// BuildRI returns a synthetic "ri" index cell: 4-byte cell-offset entries,
// each naming a child lf/lh/li cell.
func BuildRI(cells []uint32) []byte {
	buf := BuildLI(cells)
	copy(buf[:2], format.RISignature)
	return buf
}

// BuildValuesList returns a synthetic value-list cell: count consecutive
// little-endian uint32 value-record offsets.
func BuildValuesList(offsets []uint32) []byte {
	buf := make([]byte, len(offsets)*4)
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(buf[i*4:], o)
	}
	return buf
}
