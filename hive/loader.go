package hive

import (
	"fmt"

	"github.com/joshuapare/regkeyitem/internal/mmfile"
)

// Open maps the hive file at path read-only and validates its base block.
//
// On unix this memory-maps the file (internal/mmfile); on other platforms,
// windows included, it reads the whole file into memory. Either way
// the returned Hive never mutates the backing bytes — there is no write path.
func Open(path string) (*Hive, error) {
	data, closer, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	sz := int64(len(data))
	if sz == 0 {
		_ = closer()
		return nil, fmt.Errorf("empty hive file: %s", path)
	}

	if validateErr := ValidateMappedRegion(data, sz); validateErr != nil {
		_ = closer()
		return nil, fmt.Errorf("hive: %w", validateErr)
	}

	bb, err := ParseBaseBlock(data)
	if err != nil {
		_ = closer()
		return nil, err
	}
	if validateErr := bb.ValidateSanity(len(data)); validateErr != nil {
		_ = closer()
		return nil, validateErr
	}

	return &Hive{
		data:   data,
		size:   sz,
		base:   bb,
		closer: closer,
	}, nil
}

// Close releases the mapping. A closed Hive must not be used again.
func (h *Hive) Close() error {
	if h == nil || h.closer == nil {
		return nil
	}
	err := h.closer()
	h.closer = nil
	h.data = nil
	h.base = nil
	return err
}
