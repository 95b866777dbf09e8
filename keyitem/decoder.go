package keyitem

import (
	"github.com/joshuapare/regkeyitem/hive"
)

// readNamedKey decodes the nk cell payload at offset into a NamedKey. It is
// the Named-Key Decoder (component B): bad signature or a bounds violation
// inside the payload is a fatal *Error — without a valid nk no further
// traversal of this key is possible.
//
// nameHash is whatever the parent's lf/lh index entry supplied (0 for the
// root, or for li/ri-only parents). It is recorded on the result verbatim;
// it is never validated here — mismatch handling happens in
// CompareNameWithUTF8/16, the only place a mismatch has an observable
// effect (see §4.1 vs §4.6 in the design notes).
func readNamedKey(src CellSource, offset uint32, nameHash uint32) (*NamedKey, error) {
	payload, err := src.Get(offset)
	if err != nil {
		return nil, decodeErr("read_node_data", err)
	}

	nk, err := hive.ParseNK(payload)
	if err != nil {
		return nil, decodeErr("read_node_data", err)
	}

	rawName := nk.Name()
	name := make([]byte, len(rawName))
	copy(name, rawName)

	return &NamedKey{
		Flags:             nk.Flags(),
		LastWrittenTime:   readFiletime(nk.LastWriteFILETIME()),
		NumberOfSubKeys:   nk.SubkeyCount(),
		SubKeysListOffset: nk.SubkeyListOffsetRel(),
		NumberOfValues:    nk.ValueCount(),
		ValuesListOffset:  nk.ValueListOffsetRel(),
		SecurityKeyOffset: nk.SecurityOffsetRel(),
		ClassNameOffset:   nk.ClassNameOffsetRel(),
		ClassNameSize:     nk.ClassLength(),
		Name:              name,
		NameHash:          nameHash,
	}, nil
}

func readFiletime(raw []byte) uint64 {
	if len(raw) != 8 {
		return 0
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(raw[i])
	}
	return v
}
