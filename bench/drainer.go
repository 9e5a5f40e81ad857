package bench

import (
	"bufio"
	"fmt"
	"io"
)

// DrainerConfig controls row emission. Rows are written only when Emit is
// set; Separator defaults to ",".
type DrainerConfig struct {
	Emit      bool
	Separator string
	Out       io.Writer
	Decoder   DecoderConfig
}

// Drainer counts the rows of a cursor and optionally prints them.
type Drainer struct {
	emit    bool
	sep     []byte
	out     *bufio.Writer
	decoder *Decoder
}

func NewDrainer(cfg DrainerConfig) *Drainer {
	if cfg.Separator == "" {
		cfg.Separator = ","
	}
	d := &Drainer{
		emit:    cfg.Emit && cfg.Out != nil,
		sep:     []byte(cfg.Separator),
		decoder: NewDecoder(cfg.Decoder),
	}
	if d.emit {
		d.out = bufio.NewWriter(cfg.Out)
	}
	return d
}

// Drain advances cur until it is exhausted and returns the number of rows
// seen. numColumns is the width announced by the result metadata; a row of
// any other width is a contract violation.
func (d *Drainer) Drain(cur Cursor, numColumns int) (int64, error) {
	var rows int64
	for cur.Next() {
		if w := cur.Width(); w != numColumns {
			return rows, fmt.Errorf("row %d has %d columns, metadata has %d: %w", rows, w, numColumns, ErrColumnMismatch)
		}
		if d.emit && numColumns > 0 {
			if err := d.writeRow(cur, numColumns); err != nil {
				return rows, err
			}
		}
		rows++
	}
	return rows, nil
}

func (d *Drainer) writeRow(cur Cursor, numColumns int) error {
	d.out.Write(d.decoder.Render(cur.Column(0)))
	for i := 1; i < numColumns; i++ {
		d.out.Write(d.sep)
		d.out.Write(d.decoder.Render(cur.Column(i)))
	}
	if err := d.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	return nil
}

// Printf writes a line through the drainer's buffered output, if emitting.
func (d *Drainer) Printf(format string, args ...any) {
	if d.emit {
		fmt.Fprintf(d.out, format, args...)
	}
}

// Flush pushes buffered rows to the underlying writer.
func (d *Drainer) Flush() error {
	if d.out == nil {
		return nil
	}
	return d.out.Flush()
}

// Overflows reports how many cells were rendered empty for being too large.
func (d *Drainer) Overflows() int64 { return d.decoder.Overflows() }
