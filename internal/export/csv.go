package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVContentType is the media type written by WriteCSV.
const CSVContentType = "text/csv"

// WriteCSV writes the header and rows. Notes are not written.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
