package keyitem

import (
	"time"

	"github.com/joshuapare/regkeyitem/internal/format"
)

// InvalidOffset is the sentinel HCELL_INDEX meaning "no such reference",
// identical to format.InvalidOffset but re-exported so callers of this
// package never need to import the hive's internal format package.
const InvalidOffset = format.InvalidOffset

const nkFlagASCIIName = 0x0020

// NamedKey is the decoded form of an "nk" cell: the fixed header fields plus
// an owned copy of the name bytes. It never holds a borrowed slice — the
// cell payload it was built from may be invalidated the moment the Named-Key
// Decoder returns.
type NamedKey struct {
	Flags             uint16
	LastWrittenTime   uint64 // raw Windows FILETIME
	NumberOfSubKeys   uint32
	SubKeysListOffset uint32
	NumberOfValues    uint32
	ValuesListOffset  uint32
	SecurityKeyOffset uint32
	ClassNameOffset   uint32
	ClassNameSize     uint16
	Name              []byte // owned; ASCII or UTF-16LE per IsASCIIName
	NameHash          uint32 // verbatim value passed in from the parent's index entry
}

// IsASCIIName reports whether Name is single-byte (flag bit 0x0020), as
// opposed to UTF-16LE.
func (nk *NamedKey) IsASCIIName() bool {
	return nk.Flags&nkFlagASCIIName != 0
}

// LastWritten converts LastWrittenTime to a time.Time.
func (nk *NamedKey) LastWritten() time.Time {
	return format.FiletimeToTime(nk.LastWrittenTime)
}

// ItemFlags holds the single corruption bit a KeyItem tracks. It is kept as
// its own type, rather than a bare bool, so a future second bit does not
// require changing every call site that reads it.
type ItemFlags struct {
	corrupted bool
}

// Corrupted reports whether the CORRUPTED bit is set.
func (f ItemFlags) Corrupted() bool { return f.corrupted }

// markCorrupted sets the bit. It is idempotent and never clears it — the
// flag is monotonic for the lifetime of the owning KeyItem.
func (f *ItemFlags) markCorrupted() { f.corrupted = true }

// KeyItem is the core entity of this package: a decoded nk cell plus its
// class name, security descriptor, and values list. It is produced by
// ReadNodeData and, once built, is immutable except for the monotonic
// CORRUPTED flag.
type KeyItem struct {
	src  CellSource
	opts Options

	offset uint32
	named  *NamedKey

	className          []byte // owned; nil if absent
	securityDescriptor []byte // owned; nil if absent

	values     []uint32 // offsets that passed the validity probe, in order
	valueCache *ValueCache

	flags ItemFlags
}

// NamedKey returns the decoded nk record, or nil if ReadNodeData has not
// been called (or failed) on this item.
func (k *KeyItem) NamedKey() *NamedKey { return k.named }

// Flags returns the item's corruption flags.
func (k *KeyItem) Flags() ItemFlags { return k.flags }

// Offset returns the relative HCELL offset this item was read from.
func (k *KeyItem) Offset() uint32 { return k.offset }

// ClassName returns the raw (UTF-16LE) class name bytes, or nil if absent.
func (k *KeyItem) ClassName() []byte { return k.className }

// SecurityDescriptor returns the opaque descriptor bytes from the sk cell
// this key references, or nil if it has none.
func (k *KeyItem) SecurityDescriptor() []byte { return k.securityDescriptor }

// NumberOfValues returns the number of value offsets that survived the
// validity probe during ReadNodeData. Per invariant 4 of the data model,
// this equals the nk's declared value count unless CORRUPTED is set.
func (k *KeyItem) NumberOfValues() int { return len(k.values) }

// ValueOffsetAt returns the i'th surviving value-record offset.
func (k *KeyItem) ValueOffsetAt(i int) (uint32, bool) {
	if i < 0 || i >= len(k.values) {
		return 0, false
	}
	return k.values[i], true
}

// ValueCache returns the item's bounded value-record cache, for use by an
// external value decoder. Never nil once ReadNodeData has run.
func (k *KeyItem) ValueCache() *ValueCache { return k.valueCache }

// LastWrittenTime returns the raw FILETIME of the underlying nk, or 0 if no
// NamedKey has been decoded.
func (k *KeyItem) LastWrittenTime() uint64 {
	if k.named == nil {
		return 0
	}
	return k.named.LastWrittenTime
}
