//go:build linux

package sketchio

import (
	"fmt"
	"os"
	"syscall"
)

// preallocate reserves size bytes for f starting at offset 0 so the
// write that follows lands in one contiguous extent where the
// filesystem supports it.
func preallocate(f *os.File, size int64) error {
	if err := syscall.Fallocate(int(f.Fd()), 0, 0, size); err != nil {
		return fmt.Errorf("fallocate: %w", err)
	}
	return nil
}
