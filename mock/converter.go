package mock

import "github.com/geogate/geogate"

var _ geogate.Converter = (*Converter)(nil)

// Converter is a mock implementation of geogate.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
