package mock

import "github.com/geogate/geogate"

var _ geogate.Builder = (*Builder)(nil)

// Builder is a mock implementation of geogate.Builder.
type Builder struct {
	BuildFn func(article *geogate.CleanedArticle, pageURL string) (*geogate.IR, error)
}

func (b *Builder) Build(article *geogate.CleanedArticle, pageURL string) (*geogate.IR, error) {
	return b.BuildFn(article, pageURL)
}
