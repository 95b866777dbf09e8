package lazytree

import "github.com/joshuapare/regkeyitem/keyitem"

// subNodeRef is one child nk offset the Sub-Keys Index Walker deferred,
// paired with whatever hash its parent index entry carried.
type subNodeRef struct {
	offset  uint32
	auxSize uint64
	flags   uint8
}

// node is a Tree's per-offset bookkeeping record. It implements
// keyitem.LazyTreeNode directly, so it can be handed to ReadNodeData and
// ReadSubNodes without any adaptor layer.
type node struct {
	offset uint32
	hash   uint32

	rangeSet    bool
	rangeOffset uint32
	rangeSize   int
	rangeFlags  uint8

	subNodes []subNodeRef

	value      *keyitem.KeyItem
	valueFlags uint8
}

func (n *node) SubNodesRangeIsSet() bool { return n.rangeSet }

func (n *node) SetSubNodesRange(offset uint32, size int, flags uint8) {
	n.rangeSet = true
	n.rangeOffset = offset
	n.rangeSize = size
	n.rangeFlags = flags
}

func (n *node) AppendSubNode(offset uint32, auxSize uint64, flags uint8) int {
	n.subNodes = append(n.subNodes, subNodeRef{offset: offset, auxSize: auxSize, flags: flags})
	return len(n.subNodes) - 1
}

func (n *node) SetNodeValue(value *keyitem.KeyItem, flags uint8) {
	n.value = value
	n.valueFlags = flags
}

// SubNode is the exported view of a deferred child registered by the
// Sub-Keys Index Walker: a leaf nk offset plus whatever hash its lf/lh
// parent entry carried (0 for li/ri-only parents).
type SubNode struct {
	Offset  uint32
	AuxSize uint64
	Flags   uint8
}
