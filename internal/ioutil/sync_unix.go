//go:build unix

package ioutil

import (
	"os"

	"golang.org/x/sys/unix"
)

// fsync flushes f's contents to stable storage. Platform split mirrors the
// teacher's raw-terminal setup (cmd/retro/term_linux.go / term_windows.go
// in the pack), generalized to a build-tag form that also covers the BSDs
// and darwin rather than just linux.
func fsync(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}
