package keyitem

import "fmt"

// readClassName is the Class-Name Reader (component D). Both documented
// sentinels (offset 0xFFFFFFFF, and the legacy offset==0 && size==0 form)
// return no class name without touching the Cell Source. Any other offset
// must resolve to a cell with 0 < size <= cell length; trailing bytes in the
// cell beyond size are padding and are dropped. A non-sentinel offset with
// size==0 is out of bounds, not an empty class name, and is fatal.
func readClassName(src CellSource, offset uint32, size uint16) ([]byte, error) {
	if offset == InvalidOffset {
		return nil, nil
	}
	if offset == 0 && size == 0 {
		return nil, nil
	}

	payload, err := src.Get(offset)
	if err != nil {
		return nil, decodeErr("read_node_data.class_name", err)
	}
	if size == 0 || int(size) > len(payload) {
		return nil, decodeErr("read_node_data.class_name",
			fmt.Errorf("class name size %d out of bounds for cell size %d", size, len(payload)))
	}

	out := make([]byte, size)
	copy(out, payload[:size])
	return out, nil
}
