// Package archive is where exported recordings are written and read back.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DefaultDir is the directory recordings are saved to when none is configured.
const DefaultDir = "Recordings"

// ErrNotFound is returned by Open for an entry that does not exist.
var ErrNotFound = errors.New("archive: entry not found")

// Archive stores named documents.
type Archive interface {
	// Create opens an entry for writing, replacing any previous content.
	// The entry is complete once the writer is closed.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	// Open opens an entry for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// List returns the entry names in lexical order.
	List(ctx context.Context) ([]string, error)
}

// ValidateName rejects entry names that would escape the archive.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("archive: invalid entry name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("archive: entry name %q must not contain path separators", name)
	}
	return nil
}
