package mock

import "github.com/geogate/geogate"

var _ geogate.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of geogate.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*geogate.CleanedArticle, error)
}

func (e *Extractor) Extract(html, pageURL string) (*geogate.CleanedArticle, error) {
	return e.ExtractFn(html, pageURL)
}
