// Package ioutil wraps the output-artifact writes the driver fans out
// with golang.org/x/sync/errgroup (internal/pipeline), adding an fsync
// after every write so a crash right after a successful run can't leave
// a truncated .wasm or .wat on disk.
package ioutil

import "os"

// WriteFile writes data to path and fsyncs it before closing.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := fsync(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
