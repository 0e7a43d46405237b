package trafilatura_test

import (
	"testing"

	"github.com/geogate/geogate"
	"github.com/geogate/geogate/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html lang="en">
<head><title>Cache Invalidation Strategies</title></head>
<body>
<main>
<article>
<h1>Cache Invalidation Strategies</h1>
<p>Time-based expiry is the simplest invalidation strategy: every entry
carries a deadline and readers treat expired entries as absent. The
approach trades freshness for simplicity, which is usually the right
trade for derived data that can be recomputed from its source at any
time without coordination.</p>
<p>Capacity-based eviction complements expiry by bounding memory use.
First-in-first-out eviction removes the oldest inserted entry, which is
cheaper to track than recency of access and behaves predictably under
scan-heavy workloads that would thrash an LRU.</p>
</article>
</main>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts a valid article", func(t *testing.T) {
		t.Parallel()

		extractor := trafilatura.NewExtractor()
		article, err := extractor.Extract(articleHTML, "https://example.com/posts/caching")
		require.NoError(t, err)

		assert.Equal(t, "Cache Invalidation Strategies", article.Title)
		assert.NotEmpty(t, article.Content)
		assert.Contains(t, article.TextContent, "Time-based expiry")
	})

	t.Run("empty input rejected", func(t *testing.T) {
		t.Parallel()

		extractor := trafilatura.NewExtractor()
		_, err := extractor.Extract("", "https://example.com/")
		require.Error(t, err)
		assert.Equal(t, geogate.EINVALID, geogate.ErrorCode(err))
	})

	t.Run("page without usable article yields EUNPROCESSABLE", func(t *testing.T) {
		t.Parallel()

		extractor := trafilatura.NewExtractor()
		_, err := extractor.Extract("<html><body></body></html>", "https://example.com/")
		require.Error(t, err)
	})
}
