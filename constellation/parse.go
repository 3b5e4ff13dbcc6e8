package constellation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a constellation from r. Each non-empty line holds the real
// and imaginary part of one symbol separated by whitespace or a comma.
// Text after '#' is ignored. Line order defines the labeling.
func Parse(r io.Reader) (*Constellation, error) {
	var points []complex128

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("constellation: line %d: want 2 fields, got %d", lineNo, len(fields))
		}

		re, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("constellation: line %d: %w", lineNo, err)
		}
		im, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("constellation: line %d: %w", lineNo, err)
		}
		points = append(points, complex(re, im))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("constellation: read: %w", err)
	}

	if len(points) == 0 {
		return nil, ErrEmptyInput
	}
	return New(points)
}
