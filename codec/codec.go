// Package codec selects the JSON encoder used for capacity reports.
package codec

import (
	"fmt"
	"io"
	"sort"
)

// Codec encodes and decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is named.
var Default Codec = GoJSON{}

var builtin = map[string]Codec{
	JSON{}.Name():   JSON{},
	GoJSON{}.Name(): GoJSON{},
}

// ByName returns a built-in codec by its stable name. The empty name
// selects Default.
func ByName(name string) (Codec, error) {
	if name == "" {
		return Default, nil
	}
	c, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q (have %v)", name, Names())
	}
	return c, nil
}

// Names returns the names of all built-in codecs in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Encode marshals v with c and writes it to w followed by a newline.
func Encode(w io.Writer, c Codec, v any) error {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec %s: marshal: %w", c.Name(), err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// Decode reads all of r and unmarshals it into v with c.
func Decode(r io.Reader, c Codec, v any) error {
	if c == nil {
		c = Default
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := c.Unmarshal(b, v); err != nil {
		return fmt.Errorf("codec %s: unmarshal: %w", c.Name(), err)
	}
	return nil
}
