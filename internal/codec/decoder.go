package codec

import (
	"bufio"
	"io"
	"strings"

	"github.com/eternalApril/keyfile/internal/value"
)

// Decoder reads assignments from a line-oriented settings stream
type Decoder struct {
	reader  *bufio.Reader
	line    int
	skipped int
}

// NewDecoder initializes a Decoder over r. Lines have no length limit
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReader(r)}
}

// Read returns the next well-formed assignment. Lines that are not
// "<name> = <value>..." are skipped. Returns io.EOF at end of input
func (d *Decoder) Read() (Assignment, error) {
	for {
		line, err := d.reader.ReadString('\n')
		if line == "" && err != nil {
			return Assignment{}, err
		}
		if err != nil && err != io.EOF {
			return Assignment{}, err
		}
		d.line++

		a, ok := parseLine(line)
		if ok {
			return a, nil
		}
		d.skipped++
	}
}

// Line returns the number of lines consumed so far
func (d *Decoder) Line() int {
	return d.line
}

// Skipped returns how many lines were ignored as malformed
func (d *Decoder) Skipped() int {
	return d.skipped
}

func parseLine(line string) (Assignment, bool) {
	words := strings.Fields(line)
	if len(words) < 3 || words[1] != Separator {
		return Assignment{}, false
	}

	values := make([]value.Value, 0, len(words)-2)
	for _, w := range words[2:] {
		values = append(values, value.Parse(w))
	}

	return Assignment{
		Name:   words[0],
		Values: values,
	}, true
}
