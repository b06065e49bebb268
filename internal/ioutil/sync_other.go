//go:build !unix

package ioutil

import "os"

// fsync falls back to the portable File.Sync on non-unix platforms, where
// golang.org/x/sys/unix.Fsync isn't available.
func fsync(f *os.File) error {
	return f.Sync()
}
