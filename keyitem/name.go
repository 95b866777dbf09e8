package keyitem

import (
	"errors"

	"github.com/joshuapare/regkeyitem/keyitem/codepage"
)

var (
	errNoNamedKey  = errors.New("no named key decoded")
	errOddUTF16Len = errors.New("utf16le name has odd byte length")
)

// Name returns the raw stored name bytes (ASCII or UTF-16LE, per
// IsASCIIName), or nil if no NamedKey has been decoded.
func (k *KeyItem) Name() []byte {
	if k.named == nil {
		return nil
	}
	return k.named.Name
}

// NameSize returns len(Name()).
func (k *KeyItem) NameSize() int { return len(k.Name()) }

// UTF8Name decodes the stored name to UTF-8, using cp for ASCII-flagged
// names.
func (k *KeyItem) UTF8Name(cp codepage.Codepage) (string, error) {
	if k.named == nil {
		return "", argErr("utf8_name", errNoNamedKey)
	}
	if k.named.IsASCIIName() {
		return cp.DecodeASCII(k.named.Name)
	}
	if !codepage.ValidUTF16LE(k.named.Name) {
		return "", decodeErr("utf8_name", errOddUTF16Len)
	}
	return codepage.DecodeUTF16LE(k.named.Name), nil
}

// UTF16Name returns the name as UTF-16LE bytes, promoting an ASCII-flagged
// name through cp first.
func (k *KeyItem) UTF16Name(cp codepage.Codepage) ([]byte, error) {
	if k.named == nil {
		return nil, argErr("utf16_name", errNoNamedKey)
	}
	if !k.named.IsASCIIName() {
		out := make([]byte, len(k.named.Name))
		copy(out, k.named.Name)
		return out, nil
	}
	s, err := cp.DecodeASCII(k.named.Name)
	if err != nil {
		return nil, decodeErr("utf16_name", err)
	}
	return codepage.EncodeUTF16LE(s), nil
}

// CompareNameWithUTF8 reports whether this key's name, decoded to UTF-8,
// equals s. hash is the caller's pre-computed name hash for s (0 to skip
// the fast path). Per §4.1/§4.6, a non-zero hash that disagrees with the
// key's own non-zero stored NameHash short-circuits to false without
// decoding; any other combination (equal hash, or either side zero/unknown)
// falls through to a full decode-and-compare.
func (k *KeyItem) CompareNameWithUTF8(hash uint32, s string, cp codepage.Codepage) bool {
	if k.named == nil {
		return false
	}
	if hash != 0 && k.named.NameHash != 0 && hash != k.named.NameHash {
		return false
	}
	name, err := k.UTF8Name(cp)
	if err != nil {
		return false
	}
	return asciiEqualFold(name, s)
}

// CompareNameWithUTF16 is CompareNameWithUTF8's UTF-16LE counterpart: s is
// raw UTF-16LE bytes rather than a Go string.
func (k *KeyItem) CompareNameWithUTF16(hash uint32, s []byte, cp codepage.Codepage) bool {
	if k.named == nil {
		return false
	}
	if hash != 0 && k.named.NameHash != 0 && hash != k.named.NameHash {
		return false
	}
	name, err := k.UTF8Name(cp)
	if err != nil {
		return false
	}
	if !codepage.ValidUTF16LE(s) {
		return false
	}
	return asciiEqualFold(name, codepage.DecodeUTF16LE(s))
}

// asciiEqualFold compares a and b case-insensitively for the ASCII range
// only; bytes outside 'A'-'Z'/'a'-'z' (including anything beyond ASCII) are
// compared exactly, per the Non-goal excluding case-folding beyond ASCII.
func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		if asciiLower(ca) != asciiLower(cb) {
			return false
		}
	}
	return true
}

func asciiLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
