package bench

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	displayMax = 50 // arbitrary limit on column width in tables
	nullText   = "<NULL>"
)

func PrintStats(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n┌─────────────────────────────────────────┐\n")
	fmt.Fprintf(w, "│  %-39s│\n", s.Label)
	fmt.Fprintf(w, "├─────────────────────────────────────────┤\n")
	fmt.Fprintf(w, "│  Queries:      %-24d│\n", s.Iterations)
	fmt.Fprintf(w, "│  Errors:       %-24d│\n", s.Failures)
	fmt.Fprintf(w, "│  Rows:         %-24d│\n", s.Rows)
	fmt.Fprintf(w, "│  Duration:     %-24s│\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "│  QPS:          %-24.1f│\n", s.QPS)
	if s.Iterations > 0 {
		fmt.Fprintf(w, "│  Avg/query:    %-24s│\n", FmtDur(s.Elapsed/time.Duration(s.Iterations)))
	}
	if s.Overflows > 0 {
		fmt.Fprintf(w, "│  Empty cells:  %-24d│\n", s.Overflows)
	}
	fmt.Fprintf(w, "└─────────────────────────────────────────┘\n")
}

// PrintElapsed writes the final timing line.
func PrintElapsed(w io.Writer, s Summary) {
	fmt.Fprintf(w, "Elapsed time = %f seconds\n", s.Elapsed.Seconds())
}

func FmtDur(d time.Duration) string {
	us := float64(d.Microseconds())
	if us < 1000 {
		return fmt.Sprintf("%.0fµs", us)
	}
	return fmt.Sprintf("%.2fms", us/1000)
}

// PrintTable drains cur into a pipe-delimited table with a header row and
// returns the number of rows printed.
func PrintTable(w io.Writer, cur Cursor, cfg DecoderConfig) (int64, error) {
	names := cur.Columns()
	widths := make([]int, len(names))
	for i, n := range names {
		widths[i] = clampWidth(len(n))
	}

	dec := NewDecoder(cfg)
	var body [][]string
	for cur.Next() {
		if cur.Width() != len(names) {
			return int64(len(body)), fmt.Errorf("row %d has %d columns, metadata has %d: %w", len(body), cur.Width(), len(names), ErrColumnMismatch)
		}
		row := make([]string, len(names))
		for i := range names {
			v := cur.Column(i)
			if _, null := v.(Null); null || v == nil {
				row[i] = nullText
			} else {
				row[i] = truncate(string(dec.Render(v)), displayMax)
			}
			if l := len(row[i]); l > widths[i] {
				widths[i] = l
			}
		}
		body = append(body, row)
	}

	if len(names) > 0 {
		writeTableRow(w, names, widths)
		sep := make([]string, len(names))
		for i, wd := range widths {
			sep[i] = strings.Repeat("-", wd)
		}
		writeTableRow(w, sep, widths)
	}
	for _, row := range body {
		writeTableRow(w, row, widths)
	}
	fmt.Fprintf(w, "numReceived = %d\n", len(body))
	return int64(len(body)), nil
}

func writeTableRow(w io.Writer, cells []string, widths []int) {
	var b strings.Builder
	for i, c := range cells {
		fmt.Fprintf(&b, "| %-*s ", widths[i], truncate(c, widths[i]))
	}
	b.WriteString("|\n")
	io.WriteString(w, b.String())
}

func clampWidth(n int) int {
	if n < len(nullText) {
		n = len(nullText)
	}
	if n > displayMax {
		n = displayMax
	}
	return n
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
