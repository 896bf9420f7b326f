// Package formats provides codecs for ROSE Online asset file formats.
//
// Every format is a plain value tree with Read/Write methods over an rw
// cursor. Reads either complete fully or fail with an error describing the
// first structural fault; a partially-populated value after a failed read
// must be discarded. Encoding concerns such as resource pools and patched
// offsets never appear in the decoded values.
package formats

import (
	"fmt"
	"os"

	"github.com/Faultbox/junon-rose/pkg/rw"
)

// RoseFile is the uniform capability every format value implements:
// construct empty, populate from a cursor, serialize to a cursor.
type RoseFile interface {
	Read(r *rw.Reader) error
	Write(w *rw.Writer) error
}

// ReadPath decodes the file at path into f. Errors are attributed with the
// path; the codecs themselves are path-agnostic.
func ReadPath(path string, f RoseFile) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := f.Read(rw.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadPathWide is ReadPath with UTF-16LE string decoding, for files whose
// every string is wide (translated data tables such as ai_s.stb).
func ReadPathWide(path string, f RoseFile) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := f.Read(rw.NewWideReader(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WritePath encodes f and writes the result to path.
func WritePath(path string, f RoseFile) error {
	w := rw.NewWriter()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, w.Bytes(), 0644)
}
