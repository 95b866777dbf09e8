// Package hive provides read-only, zero-copy access to the binary structures
// of a Windows Registry hive file (REGF format).
//
// # Overview
//
// This package decodes the on-disk layout only: the REGF base block, HBINs,
// and the cell types that make up the key-item subsystem (NK, SK, LF/LH/LI/RI
// subkey indexes, and the raw value list array). It does not decode VK value
// data, does not build an index of the whole tree up front, and has no write
// path — a hive is opened, walked, and closed. Higher-level traversal, lazy
// node/value-list hydration, and name comparison live in the keyitem package,
// which treats Hive as its CellSource.
//
// # Key Types
//
//   - Hive: the opened hive file, backed by a read-only mapping
//   - BaseBlock: the 4KB REGF header containing hive metadata
//   - HBIN: a hive bin (4KB-aligned data block)
//   - NK (Name Key): registry key cell
//   - SK (Security Key): security descriptor cell
//   - LF/LH/LI/RI: subkey index cell variants
//   - ValueList: the raw array of VK offsets an NK points at
//   - Cell: the generic size-prefixed container every cell above lives in
//
// # File Structure
//
// A registry hive file consists of:
//
//	[REGF Header - 4KB] [HBIN 0] [HBIN 1] ... [HBIN N]
//
// Each HBIN contains cells that store registry keys, values, and index structures.
// Cells are identified by relative offsets from the HBIN start (0x1000).
//
// # Opening a Hive
//
// The primary way to open a hive is through the Open function:
//
//	h, err := hive.Open("/path/to/SYSTEM")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
// On unix the file is memory-mapped read-only; elsewhere (windows included)
// the whole file is read into memory. Either way the returned bytes are never
// mutated by this package.
//
// # Accessing Registry Data
//
// The package provides low-level accessors for registry structures:
//
//	// Get root key
//	payload, err := h.ResolveCellPayload(h.RootCellOffset())
//	nk, err := ParseNK(payload)
//
//	// Get key name
//	name := nk.Name()
//
//	// Resolve the subkey list (whichever of LF/LH/LI/RI it turns out to be)
//	list, err := nk.ResolveSubkeyList(h)
//
// # Zero-Copy Design
//
// Every type above is a zero-copy view over Hive's backing byte slice: no
// allocation on parse, and no independent lifetime — a returned slice or
// view is valid only as long as the Hive that produced it stays open.
//
// # Thread Safety
//
// The hive bytes are never mutated, but a Hive is not safe for concurrent
// use: IndexOf lazily extends an internal HBIN span cache without locking.
package hive
