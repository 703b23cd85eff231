//go:build !linux

package sketchio

import "os"

// preallocate is a no-op outside Linux; Save still succeeds, just
// without the contiguous-extent hint.
func preallocate(f *os.File, size int64) error {
	return nil
}
