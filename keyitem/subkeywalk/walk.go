// Package subkeywalk implements the Sub-Keys Index Walker: the recursive
// descent over lf/lh/li/ri cells that turns a sub-keys-list offset into a
// set of deferred leaf-node registrations on a Lazy Tree node.
package subkeywalk

import (
	"fmt"

	"github.com/joshuapare/regkeyitem/hive"
)

// CellSource is the subset of the Cell Source contract the walker needs.
// Declared locally (rather than imported from keyitem) so this package has
// no dependency on keyitem — keyitem depends on subkeywalk, not the other
// way around.
type CellSource interface {
	Get(offset uint32) ([]byte, error)
	IndexOf(offset uint32) (int, bool)
}

// LazyTreeNode is the one Lazy Tree method the walker calls: registering a
// leaf nk offset (plus its index-entry hash, passed through as a 64-bit
// sidechannel, not a real size) as a deferred child.
type LazyTreeNode interface {
	AppendSubNode(offset uint32, auxSize uint64, flags uint8) int
}

// UnknownSignatureError is returned when an index cell's signature is none
// of lf/lh/li/ri. Per the walk's design, this is always fatal: guessing at
// an unknown cell's element width risks misinterpreting every subsequent
// byte in the cell.
type UnknownSignatureError struct {
	Offset uint32
	Sig    [2]byte
}

func (e *UnknownSignatureError) Error() string {
	return fmt.Sprintf("subkeywalk: unknown index signature %q at offset 0x%x", e.Sig[:], e.Offset)
}

// OutOfRangeError is returned in non-tolerant mode instead of silently
// dropping a child whose offset is outside every known hive bin.
type OutOfRangeError struct {
	ParentOffset uint32
	ChildOffset  uint32
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("subkeywalk: child offset 0x%x at index 0x%x out of range", e.ChildOffset, e.ParentOffset)
}

// Walk descends from a sub-keys-list offset, appending every leaf nk it
// finds to node, recursing through any "ri" indirection levels it
// encounters, and bounding that recursion at maxDepth. In tolerant mode it
// reports corrupted=true (never an error) when a child offset turns out to
// be outside every known hive bin — those children are simply skipped, per
// the "mark corrupted but continue" policy. When tolerant is false, an
// out-of-range child is promoted to a fatal OutOfRangeError instead. An
// unknown cell signature is always fatal, regardless of tolerant.
func Walk(src CellSource, offset uint32, maxDepth int, node LazyTreeNode, tolerant bool) (corrupted bool, err error) {
	return walk(src, offset, 0, maxDepth, node, tolerant)
}

func walk(src CellSource, offset uint32, depth, maxDepth int, node LazyTreeNode, tolerant bool) (bool, error) {
	if depth >= maxDepth {
		// Depth cap: retain recursion but refuse to go deeper, per the
		// design note about hostile/cyclic ri chains. This is advisory,
		// not fatal — whatever was already appended stands.
		return true, nil
	}

	cell, err := src.Get(offset)
	if err != nil {
		return false, fmt.Errorf("subkeywalk: get(0x%x): %w", offset, err)
	}

	// Local copy: sibling cells share a cache that may evict the slice
	// backing cell once we start recursing or calling back into node.
	buffer := make([]byte, len(cell))
	copy(buffer, cell)

	kind := hive.DetectListKind(buffer)
	if kind == hive.ListUnknown {
		var sig [2]byte
		if len(buffer) >= 2 {
			sig[0], sig[1] = buffer[0], buffer[1]
		}
		return false, &UnknownSignatureError{Offset: offset, Sig: sig}
	}

	isIndirect := kind == hive.ListRI
	hasHash := kind == hive.ListLF || kind == hive.ListLH

	count, childAt, hashAt, err := indexAccessors(kind, buffer)
	if err != nil {
		return false, fmt.Errorf("subkeywalk: parse index at 0x%x: %w", offset, err)
	}

	corrupted := false
	for i := 0; i < count; i++ {
		childOffset := childAt(i)
		var childHash uint32
		if hasHash {
			childHash = hashAt(i)
		}

		if _, ok := src.IndexOf(childOffset); !ok {
			if !tolerant {
				return false, &OutOfRangeError{ParentOffset: offset, ChildOffset: childOffset}
			}
			corrupted = true
			continue
		}

		if isIndirect {
			childCorrupted, walkErr := walk(src, childOffset, depth+1, maxDepth, node, tolerant)
			if walkErr != nil {
				return false, walkErr
			}
			if childCorrupted {
				corrupted = true
			}
			continue
		}

		node.AppendSubNode(childOffset, uint64(childHash), 0)
	}

	return corrupted, nil
}

// indexAccessors returns the element count and per-index child/hash
// accessors for whichever concrete index cell kind was detected, hiding the
// lf/lh (8-byte, hashed) vs li/ri (4-byte, unhashed) layout difference from
// the walk loop above.
func indexAccessors(kind hive.SubkeyListKind, payload []byte) (count int, childAt func(int) uint32, hashAt func(int) uint32, err error) {
	switch kind {
	case hive.ListLF:
		lf, parseErr := hive.ParseLF(payload)
		if parseErr != nil {
			return 0, nil, nil, parseErr
		}
		return lf.Count(),
			func(i int) uint32 { return lf.Entry(i).Cell() },
			func(i int) uint32 { return lfHashAsUint32(lf.Entry(i).HintBytes()) },
			nil
	case hive.ListLH:
		lh, parseErr := hive.ParseLH(payload)
		if parseErr != nil {
			return 0, nil, nil, parseErr
		}
		return lh.Count(),
			func(i int) uint32 { return lh.Entry(i).Cell() },
			func(i int) uint32 { return lh.Entry(i).HashKey() },
			nil
	case hive.ListLI:
		li, parseErr := hive.ParseLI(payload)
		if parseErr != nil {
			return 0, nil, nil, parseErr
		}
		return li.Count(), func(i int) uint32 { return li.CellIndexAt(i) }, nil, nil
	case hive.ListRI:
		ri, parseErr := hive.ParseRI(payload)
		if parseErr != nil {
			return 0, nil, nil, parseErr
		}
		return ri.Count(), func(i int) uint32 { return ri.LeafCellAt(i) }, nil, nil
	default:
		return 0, nil, nil, fmt.Errorf("subkeywalk: unsupported index kind %v", kind)
	}
}

// lfHashAsUint32 packs an lf entry's 4-byte ASCII name hint into a uint32 so
// it can travel through the same aux_size sidechannel as an lh HashKey,
// matching §4.5's "the walker does not compute or validate them, but it
// does propagate the stored hash" — the hint bytes ARE the hash for lf.
func lfHashAsUint32(hint []byte) uint32 {
	var v uint32
	for _, b := range hint {
		v = v<<8 | uint32(b)
	}
	return v
}
