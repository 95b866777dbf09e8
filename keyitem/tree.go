package keyitem

// LazyTreeNode is the slice of the Lazy Tree contract a KeyItem needs while
// hydrating itself and its sub-keys: the node this KeyItem's data belongs
// to. The Lazy Tree (component H) owns the actual bounded node cache; a
// KeyItem only ever sees the one node it was asked to hydrate.
type LazyTreeNode interface {
	// SubNodesRangeIsSet reports whether this node already has a deferred
	// sub-nodes range registered.
	SubNodesRangeIsSet() bool
	// SetSubNodesRange records where this node's sub-key index lives
	// (offset, a size hint, and implementation-defined flags) without
	// walking it — the walk happens later, in ReadSubNodes.
	SetSubNodesRange(offset uint32, size int, flags uint8)
	// AppendSubNode registers one deferred leaf child (a bare nk offset
	// plus the hash sidechannel its parent index entry carried) and
	// returns its index within the node's child list.
	AppendSubNode(offset uint32, auxSize uint64, flags uint8) int
	// SetNodeValue attaches the now-fully-hydrated KeyItem as this node's
	// resolved value.
	SetNodeValue(value *KeyItem, flags uint8)
}
