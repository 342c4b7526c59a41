package codec

import (
	"bufio"
	"io"
)

// Encoder handles the serialization of assignments into an output stream
type Encoder struct {
	writer *bufio.Writer
}

// NewEncoder initializes an Encoder with a buffered writer
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		writer: bufio.NewWriter(w),
	}
}

// Write serializes one assignment as "<name> = v1 v2 ...\n".
// Output is buffered until Flush
func (e *Encoder) Write(a Assignment) error {
	if _, err := e.writer.WriteString(a.Name); err != nil {
		return err
	}
	if err := e.writer.WriteByte(' '); err != nil {
		return err
	}
	if _, err := e.writer.WriteString(Separator); err != nil {
		return err
	}

	for _, v := range a.Values {
		if err := e.writer.WriteByte(' '); err != nil {
			return err
		}
		if _, err := e.writer.WriteString(v.Text()); err != nil {
			return err
		}
	}

	return e.writer.WriteByte('\n')
}

// Flush sends all buffered data to the underlying writer
func (e *Encoder) Flush() error {
	return e.writer.Flush()
}
