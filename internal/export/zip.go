package export

import (
	"archive/zip"
	"fmt"
	"io"
)

// ZIPContentType is the media type written by WriteZIP.
const ZIPContentType = "application/zip"

// File is one entry of a ZIP bundle.
type File struct {
	Name string
	Data []byte
}

// WriteZIP bundles files in order. Duplicate names are suffixed so no entry
// is shadowed.
func WriteZIP(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(files))
	for _, f := range files {
		name := f.Name
		if n := seen[f.Name]; n > 0 {
			name = fmt.Sprintf("%d_%s", n+1, f.Name)
		}
		seen[f.Name]++

		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("add %s: %w", name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}
