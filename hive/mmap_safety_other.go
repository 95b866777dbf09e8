//go:build !linux

package hive

import "fmt"

// PreFaultPages is a no-op on platforms without MADV_POPULATE_READ: no pages
// are pre-faulted, including on non-linux unix systems where the file is
// memory-mapped.
func PreFaultPages(data []byte) error {
	_ = data
	return nil
}

// ValidateMappedRegion checks that the mapped region matches the expected
// size. Page-level fault detection is Linux-only (see mmap_safety.go).
func ValidateMappedRegion(data []byte, expectedSize int64) error {
	if int64(len(data)) != expectedSize {
		return fmt.Errorf("mapped size mismatch: got %d, expected %d", len(data), expectedSize)
	}
	return nil
}
