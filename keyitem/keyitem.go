package keyitem

import (
	"fmt"

	"github.com/joshuapare/regkeyitem/keyitem/subkeywalk"
)

// New constructs an empty KeyItem bound to src. It holds no data until
// ReadNodeData succeeds.
func New(src CellSource, opts Options) *KeyItem {
	return &KeyItem{src: src, opts: opts}
}

// ReadNodeData is the Key Item's primary operation (component G): it fetches
// the nk cell at offset, decodes it, and eagerly reads everything cheap
// (class name, security descriptor, the values-list offset array) while
// deferring the expensive part (the sub-keys subtree) to a registration on
// node. node may be nil for standalone decoding without a Lazy Tree.
//
// On any fatal error the KeyItem is left exactly as it was before the call —
// nothing is partially committed. On success, the item reflects §3's
// invariants 2-4, with CORRUPTED set if any referenced offset turned out to
// be outside every known hive bin.
func (k *KeyItem) ReadNodeData(offset uint32, nameHash uint32, node LazyTreeNode) error {
	logger.Debug("read_node_data", "offset", offset)

	named, err := readNamedKey(k.src, offset, nameHash)
	if err != nil {
		return err
	}

	className, err := readClassName(k.src, named.ClassNameOffset, named.ClassNameSize)
	if err != nil {
		return err
	}

	var securityDescriptor []byte
	if named.SecurityKeyOffset != InvalidOffset {
		securityDescriptor, err = readSecurityDescriptor(k.src, named.SecurityKeyOffset)
		if err != nil {
			return err
		}
	}

	corrupted := false
	if named.NumberOfSubKeys > 0 && node != nil && !node.SubNodesRangeIsSet() {
		if _, ok := k.src.IndexOf(named.SubKeysListOffset); ok {
			node.SetSubNodesRange(named.SubKeysListOffset, int(named.NumberOfSubKeys), 0)
		} else if k.opts.Tolerant {
			corrupted = true
		} else {
			return decodeErr("read_node_data.sub_keys_list",
				fmt.Errorf("sub_keys_list_offset 0x%x out of range", named.SubKeysListOffset))
		}
	}

	values, valuesCorrupted, err := readValuesList(k.src, named.ValuesListOffset, named.NumberOfValues, k.opts.Tolerant)
	if err != nil {
		return err
	}
	if valuesCorrupted {
		corrupted = true
	}

	k.offset = offset
	k.named = named
	k.className = className
	k.securityDescriptor = securityDescriptor
	k.values = values
	k.valueCache = NewValueCache(k.opts.ValueCacheCapacity)
	if corrupted {
		if !k.flags.Corrupted() {
			logger.Warn("key item corrupted", "offset", offset)
		}
		k.flags.markCorrupted()
	}

	if node != nil {
		node.SetNodeValue(k, 0)
	}
	return nil
}

// ReadSubNodes walks the sub-keys index rooted at offset (normally the
// SubKeysListOffset registered during ReadNodeData) and registers every
// leaf nk it finds on node. In tolerant mode it returns corrupted=true, not
// an error, when some child offsets were out of range — those children are
// dropped, not the whole subtree. With Options.Tolerant false, an
// out-of-range child aborts with an error instead. An unknown index-cell
// signature always aborts with an error, regardless of Tolerant.
func (k *KeyItem) ReadSubNodes(offset uint32, node LazyTreeNode) (corrupted bool, err error) {
	logger.Debug("read_sub_nodes", "offset", offset)

	corrupted, walkErr := subkeywalk.Walk(k.src, offset, k.opts.MaxRecursionDepth, node, k.opts.Tolerant)
	if walkErr != nil {
		return false, decodeErr("read_sub_nodes", walkErr)
	}
	if corrupted {
		if !k.flags.Corrupted() {
			logger.Warn("sub-keys walk corrupted", "offset", offset)
		}
		k.flags.markCorrupted()
	}
	return corrupted, nil
}
