package keyitem

// CellSource is everything keyitem needs from a backing hive. hive.Hive
// implements it directly; tests construct lightweight fakes over an
// in-memory buffer without needing a full Hive.
type CellSource interface {
	// Get resolves a relative HCELL offset to the cell's payload bytes. The
	// returned slice is borrowed and is only valid until the next call that
	// can invalidate the source's backing buffer (for a real Hive, that
	// never happens post-Open, but callers must not assume that here).
	Get(offset uint32) ([]byte, error)
	// IndexOf reports whether offset names a byte range inside some bin the
	// source actually has, and if so a stable handle identifying that bin.
	// It is cheap enough to call once per sub-key index element.
	IndexOf(offset uint32) (int, bool)
}
