package artifact

import (
	"fmt"
	"io"
)

const headerRule = "=========="

// Header returns the section header line for a title, without surrounding
// blank lines.
func Header(title string) string {
	return headerRule + " " + title + " " + headerRule
}

// Writer appends transcript records to an artifact. Each record is framed as
// two newlines, the header, two newlines, then the transcript text.
type Writer struct {
	w io.Writer
	n int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteRecord(title, text string) error {
	if _, err := io.WriteString(w.w, "\n\n"+Header(title)+"\n\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := io.WriteString(w.w, text); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	w.n++
	return nil
}

// Records reports how many records were written.
func (w *Writer) Records() int { return w.n }
