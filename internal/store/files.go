package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("file too large")

// FileStore keeps uploaded material bytes in a directory. Each file is
// saved under a fresh uuid prefix so equal names never collide.
type FileStore struct {
	dir      string
	maxBytes int64
}

// NewFileStore creates dir if needed. maxBytes <= 0 means no limit.
func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save copies r to a new file named after name and returns its path.
func (f *FileStore) Save(name string, r io.Reader) (string, error) {
	path := filepath.Join(f.dir, uuid.NewString()+"_"+SafeFilename(name))
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create material file: %w", err)
	}

	src := r
	if f.maxBytes > 0 {
		src = io.LimitReader(r, f.maxBytes+1)
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && f.maxBytes > 0 && n > f.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write material file: %w", err)
	}
	return path, nil
}

// Open opens a saved file. Paths outside the store directory are rejected.
func (f *FileStore) Open(path string) (*os.File, error) {
	rel, err := filepath.Rel(f.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("material file %s: %w", path, ErrNotFound)
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("material file %s: %w", path, ErrNotFound)
	}
	return file, err
}

// SafeFilename reduces name to a base name of letters, digits, dots,
// dashes and underscores. Spaces become underscores.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "file"
	}
	return out
}
