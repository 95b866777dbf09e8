// Package codepage decodes the two name encodings a registry hive can use:
// a single-byte code page (when the nk "ASCII name" flag is set) or
// UTF-16LE. Case-folding and normalization beyond plain ASCII upper/lower
// are explicitly out of scope.
package codepage

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Codepage wraps a single-byte encoding used to interpret ASCII-flagged
// names. The zero value is invalid; use CP1252 or New.
type Codepage struct {
	cm *charmap.Charmap
}

// CP1252 is Windows-1252 (Latin-1 plus the 0x80-0x9F extensions), the
// default and by far the most common code page for compressed registry
// names.
var CP1252 = Codepage{cm: charmap.Windows1252}

// New wraps an arbitrary x/text single-byte charmap as a Codepage.
func New(cm *charmap.Charmap) Codepage {
	return Codepage{cm: cm}
}

// DecodeASCII decodes single-byte name bytes (the nk "ASCII name" flag was
// set) to UTF-8 using the receiver's code page. Pure-ASCII input (every byte
// < 0x80) is returned verbatim without touching the charmap, since ASCII is
// a subset of every single-byte Windows code page.
func (c Codepage) DecodeASCII(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if isASCII(data) {
		return string(data), nil
	}
	if c.cm == nil {
		return "", fmt.Errorf("codepage: no charmap configured for non-ASCII bytes")
	}
	decoded, err := c.cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("codepage: decode: %w", err)
	}
	return string(decoded), nil
}

// EncodeASCII is the inverse of DecodeASCII: it encodes a UTF-8 string to
// the receiver's single-byte code page.
func (c Codepage) EncodeASCII(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if c.cm == nil {
		return nil, fmt.Errorf("codepage: no charmap configured")
	}
	encoded, err := c.cm.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("codepage: encode: %w", err)
	}
	return encoded, nil
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// DecodeUTF16LE decodes UTF-16LE name bytes to UTF-8, handling surrogate
// pairs. Odd-length input is truncated at the last full code unit.
func DecodeUTF16LE(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	if allASCIIUTF16(data) {
		var b strings.Builder
		b.Grow(len(data) / 2)
		for i := 0; i+1 < len(data); i += 2 {
			b.WriteByte(data[i])
		}
		return b.String()
	}

	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i+1 < len(data); i += 2 {
		r := rune(data[i]) | rune(data[i+1])<<8
		if r >= 0xD800 && r <= 0xDBFF && i+3 < len(data) {
			r2 := rune(data[i+2]) | rune(data[i+3])<<8
			if r2 >= 0xDC00 && r2 <= 0xDFFF {
				r = 0x10000 + ((r-0xD800)<<10 | (r2 - 0xDC00))
				i += 2
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allASCIIUTF16(data []byte) bool {
	if len(data)%2 != 0 {
		return false
	}
	for i := 0; i < len(data); i += 2 {
		if data[i+1] != 0 || data[i] >= 0x80 {
			return false
		}
	}
	return true
}

// EncodeUTF16LE encodes a UTF-8 string to UTF-16LE bytes, used by
// KeyItem.UTF16Name to promote an ASCII-flagged name.
func EncodeUTF16LE(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		if r <= 0xFFFF {
			out = append(out, byte(r), byte(r>>8))
			continue
		}
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		out = append(out, byte(hi), byte(hi>>8), byte(lo), byte(lo>>8))
	}
	return out
}

// ValidUTF16LE reports whether data has even length, a requirement before
// DecodeUTF16LE can meaningfully run.
func ValidUTF16LE(data []byte) bool { return len(data)%2 == 0 }
