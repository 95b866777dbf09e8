// Package lazytree is the Lazy Tree / Lazy List adaptor (component H): a
// bounded node cache sitting in front of keyitem.KeyItem that hydrates a
// key's own data eagerly (via ReadNodeData) but only ever expands its
// sub-keys subtree on demand (via ReadSubNodes), one index walk at a time.
//
// Grounded on the teacher's hive/namecache.lruCache: the same
// container/list + map eviction shape, adapted from a name->string cache
// into an offset->*keyitem.KeyItem node cache.
package lazytree

import (
	"container/list"
	"sync"

	"github.com/joshuapare/regkeyitem/keyitem"
)

// Tree is a bounded cache of hydrated nodes over a single CellSource. The
// cache map and LRU order are guarded by a mutex, but per-node state written
// by Node, Expand and the node-level setters is not, so a Tree is not safe
// for concurrent use.
type Tree struct {
	mu sync.Mutex

	src  keyitem.CellSource
	opts keyitem.Options

	capacity int
	items    map[uint32]*list.Element
	order    *list.List // front = most recently used
}

// NewTree constructs a Tree with room for at most capacity nodes. A
// capacity <= 0 means unbounded.
func NewTree(src keyitem.CellSource, capacity int, opts ...keyitem.Option) *Tree {
	return &Tree{
		src:      src,
		opts:     keyitem.NewOptions(opts...),
		capacity: capacity,
		items:    make(map[uint32]*list.Element),
		order:    list.New(),
	}
}

// Node returns the hydrated KeyItem at offset, decoding it via
// keyitem.ReadNodeData on first access and serving every later call for
// the same offset from cache. nameHash is forwarded to ReadNodeData
// verbatim (see keyitem.CompareNameWithUTF8/16 for where it matters).
func (t *Tree) Node(offset uint32, nameHash uint32) (*keyitem.KeyItem, error) {
	n := t.nodeFor(offset, nameHash)
	if n.value != nil {
		return n.value, nil
	}

	item := keyitem.New(t.src, t.opts)
	if err := item.ReadNodeData(offset, nameHash, n); err != nil {
		t.mu.Lock()
		t.evictLocked(offset)
		t.mu.Unlock()
		return nil, err
	}
	return item, nil
}

// SubNodesRangeIsSet reports whether offset's node already has a deferred
// sub-keys range registered.
func (t *Tree) SubNodesRangeIsSet(offset uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.lookupLocked(offset)
	return ok && n.rangeSet
}

// SetSubNodesRange records that offset's sub-keys index lives at
// rangeOffset, creating the node's cache entry if this is its first mention.
func (t *Tree) SetSubNodesRange(offset uint32, rangeOffset uint32, size int, flags uint8) {
	t.mu.Lock()
	n := t.getOrCreateLocked(offset, 0)
	t.mu.Unlock()
	n.SetSubNodesRange(rangeOffset, size, flags)
}

// AppendSubNode registers childOffset as a deferred child of parent,
// creating parent's cache entry if needed, and returns the child's index
// within parent's child list.
func (t *Tree) AppendSubNode(parent uint32, childOffset uint32, auxSize uint64, flags uint8) int {
	t.mu.Lock()
	n := t.getOrCreateLocked(parent, 0)
	t.mu.Unlock()
	return n.AppendSubNode(childOffset, auxSize, flags)
}

// Expand runs the Sub-Keys Index Walker over offset's registered
// sub-nodes range, populating its deferred child list. It is a no-op
// returning (false, nil) if offset has no range registered, or if it has
// already been expanded (non-empty child list). Call Node first so the
// range has been registered by ReadNodeData.
func (t *Tree) Expand(offset uint32) (corrupted bool, err error) {
	t.mu.Lock()
	n, ok := t.lookupLocked(offset)
	t.mu.Unlock()
	if !ok || !n.rangeSet || len(n.subNodes) > 0 {
		return false, nil
	}

	item := keyitem.New(t.src, t.opts)
	return item.ReadSubNodes(n.rangeOffset, n)
}

// SubNodes returns offset's deferred children, populated by Expand. It
// returns (nil, false) if offset has never been seen.
func (t *Tree) SubNodes(offset uint32) ([]SubNode, bool) {
	t.mu.Lock()
	n, ok := t.lookupLocked(offset)
	t.mu.Unlock()
	if !ok {
		return nil, false
	}
	out := make([]SubNode, len(n.subNodes))
	for i, ref := range n.subNodes {
		out[i] = SubNode{Offset: ref.offset, AuxSize: ref.auxSize, Flags: ref.flags}
	}
	return out, true
}

// Len returns the number of nodes currently cached.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order.Len()
}

func (t *Tree) nodeFor(offset, hash uint32) *node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getOrCreateLocked(offset, hash)
}

func (t *Tree) lookupLocked(offset uint32) (*node, bool) {
	elem, ok := t.items[offset]
	if !ok {
		return nil, false
	}
	t.order.MoveToFront(elem)
	return elem.Value.(*node), true
}

func (t *Tree) getOrCreateLocked(offset, hash uint32) *node {
	if n, ok := t.lookupLocked(offset); ok {
		return n
	}
	n := &node{offset: offset, hash: hash}
	if t.capacity > 0 && t.order.Len() >= t.capacity {
		if back := t.order.Back(); back != nil {
			evicted := t.order.Remove(back).(*node)
			delete(t.items, evicted.offset)
		}
	}
	elem := t.order.PushFront(n)
	t.items[offset] = elem
	return n
}

func (t *Tree) evictLocked(offset uint32) {
	if elem, ok := t.items[offset]; ok {
		t.order.Remove(elem)
		delete(t.items, offset)
	}
}
