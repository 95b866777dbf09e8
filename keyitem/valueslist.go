package keyitem

import (
	"encoding/binary"
	"fmt"
)

// readValuesList is the Values-List Reader (component E). In tolerant mode
// it never aborts partway through a corrupt list — an out-of-range entry is
// dropped and the caller is told corrupted=true, but every other entry in
// the list is still read, per §4.4's "do NOT abort the loop". When tolerant
// is false, an out-of-range entry is promoted to a fatal DecodeError instead.
func readValuesList(src CellSource, offset uint32, count uint32, tolerant bool) (values []uint32, corrupted bool, err error) {
	if count == 0 {
		return nil, false, nil
	}
	if offset == 0 || offset == InvalidOffset {
		return nil, false, decodeErr("read_node_data.values_list",
			fmt.Errorf("values_list_offset invalid with number_of_values=%d", count))
	}

	payload, err := src.Get(offset)
	if err != nil {
		return nil, false, decodeErr("read_node_data.values_list", err)
	}

	needed := int(count) * 4
	if len(payload) < needed {
		return nil, false, decodeErr("read_node_data.values_list",
			fmt.Errorf("cell size %d smaller than 4*%d", len(payload), count))
	}

	out := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		vkOffset := binary.LittleEndian.Uint32(payload[i*4 : i*4+4])
		if _, ok := src.IndexOf(vkOffset); !ok {
			if !tolerant {
				return nil, false, decodeErr("read_node_data.values_list",
					fmt.Errorf("value entry %d offset 0x%x out of range", i, vkOffset))
			}
			corrupted = true
			continue
		}
		out = append(out, vkOffset)
	}
	return out, corrupted, nil
}
