package sheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteJSON writes s as indented JSON. The output depends only on s, so the
// same sheet always produces the same bytes.
func WriteJSON(w io.Writer, s Sheet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode sheet: %w", err)
	}
	return nil
}

// CSVHeader is the header row written by WriteCSV.
var CSVHeader = []string{"day", "date", "start", "end", "hours", "status"}

// WriteCSV writes one line per weekday followed by a total line.
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range s.Rows {
		row := []string{r.Label, r.Date.Format("01/02/2006"), r.Start, r.End, r.Hours, string(r.Status)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	total := []string{"Total", "", "", "", s.Total, ""}
	if s.Mismatch && s.Difference != nil {
		total[5] = "mismatch " + strconv.FormatFloat(*s.Difference, 'f', -1, 64)
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
