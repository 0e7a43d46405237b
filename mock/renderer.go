package mock

import "github.com/geogate/geogate"

var _ geogate.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of geogate.Renderer.
type Renderer struct {
	RenderFn      func(ir *geogate.IR) string
	RenderHumanFn func(pageURL string) string
}

func (r *Renderer) Render(ir *geogate.IR) string {
	return r.RenderFn(ir)
}

func (r *Renderer) RenderHuman(pageURL string) string {
	return r.RenderHumanFn(pageURL)
}
