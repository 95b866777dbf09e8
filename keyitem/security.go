package keyitem

import "github.com/joshuapare/regkeyitem/hive"

// readSecurityDescriptor is the Security-Key Decoder (component C). The
// caller only invokes this when securityKeyOffset != InvalidOffset; any
// decode failure here is fatal, per §4.3. Reference counting on the sk cell
// is a shared-resource concern of the hive as a whole, not of a single
// KeyItem — it is deliberately not tracked here.
func readSecurityDescriptor(src CellSource, offset uint32) ([]byte, error) {
	payload, err := src.Get(offset)
	if err != nil {
		return nil, decodeErr("read_node_data.security_key", err)
	}

	sk, err := hive.ParseSK(payload)
	if err != nil {
		return nil, decodeErr("read_node_data.security_key", err)
	}

	desc := sk.Descriptor()
	out := make([]byte, len(desc))
	copy(out, desc)
	return out, nil
}
