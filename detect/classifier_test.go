package detect_test

import (
	"testing"

	"github.com/geogate/geogate"
	"github.com/geogate/geogate/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chromeUA  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	gptBotUA  = "Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko); compatible; GPTBot/1.1; +https://openai.com/gptbot"
	claudeUA  = "Mozilla/5.0 (compatible; ClaudeBot/1.0; +claudebot@anthropic.com)"
	curlUA    = "curl/8.4.0"
	pythonUA  = "python-requests/2.31.0"
	spiderUA  = "Mozilla/5.0 (compatible; Bytespider; spider-feedback@bytedance.com)"
	youComUA  = "Mozilla/5.0 (compatible; YouBot; +https://about.you.com/youbot/)"
	headless  = "Mozilla/5.0 HeadlessChrome/125.0.0.0 Safari/537.36"
	pplBotUA  = "Mozilla/5.0 (compatible; PerplexityBot/1.0; +https://perplexity.ai/perplexitybot)"
	ccBotUA   = "CCBot/2.0 (https://commoncrawl.org/faq/)"
	amazonUA  = "Mozilla/5.0 (compatible; Amazonbot/0.1; +https://developer.amazon.com/support/amazonbot)"
	googleExt = "Mozilla/5.0 (compatible; Google-Extended)"
)

func TestClassifier_KnownCrawlers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ua   string
	}{
		{"GPTBot", gptBotUA},
		{"ClaudeBot", claudeUA},
		{"Bytespider", spiderUA},
		{"YouBot", youComUA},
		{"PerplexityBot", pplBotUA},
		{"CCBot", ccBotUA},
		{"Amazonbot", amazonUA},
		{"Google-Extended", googleExt},
	}

	c := detect.NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := c.Classify(geogate.RequestSignals{UserAgent: tt.ua})
			assert.True(t, result.IsAI)
			assert.Equal(t, geogate.ConfidenceHigh, result.Confidence)
			assert.NotEmpty(t, result.Reasons)
			assert.Equal(t, 1, result.SignalsObserved)
		})
	}
}

func TestClassifier_Browsers(t *testing.T) {
	t.Parallel()

	c := detect.NewClassifier()

	t.Run("Chrome is non-AI with low confidence", func(t *testing.T) {
		t.Parallel()

		result := c.Classify(geogate.RequestSignals{UserAgent: chromeUA, Accept: "text/html,application/xhtml+xml"})
		assert.False(t, result.IsAI)
		assert.Equal(t, geogate.ConfidenceLow, result.Confidence)
	})

	t.Run("browser short-circuits Accept heuristic", func(t *testing.T) {
		t.Parallel()

		// A browser UA wins even with a JSON Accept header.
		result := c.Classify(geogate.RequestSignals{UserAgent: chromeUA, Accept: "application/json"})
		assert.False(t, result.IsAI)
	})

	t.Run("headless marker disables the short-circuit", func(t *testing.T) {
		t.Parallel()

		result := c.Classify(geogate.RequestSignals{UserAgent: headless, Accept: "application/json"})
		assert.True(t, result.IsAI)
		assert.Equal(t, geogate.ConfidenceMedium, result.Confidence)
	})
}

func TestClassifier_ExplicitOverrides(t *testing.T) {
	t.Parallel()

	c := detect.NewClassifier()
	strict := detect.NewClassifier(detect.WithStrictMode())

	t.Run("X-AI-Client header is conclusive", func(t *testing.T) {
		t.Parallel()

		sig := geogate.RequestSignals{
			UserAgent: chromeUA,
			Headers:   map[string]string{"x-ai-client": "true"},
		}
		result := c.Classify(sig)
		assert.True(t, result.IsAI)
		assert.Equal(t, geogate.ConfidenceHigh, result.Confidence)
	})

	t.Run("header with explicit negative value is ignored", func(t *testing.T) {
		t.Parallel()

		sig := geogate.RequestSignals{
			UserAgent: chromeUA,
			Headers:   map[string]string{"x-ai-client": "false"},
		}
		assert.False(t, c.Classify(sig).IsAI)
	})

	t.Run("format=geo with no user agent is conclusive even in strict mode", func(t *testing.T) {
		t.Parallel()

		sig := geogate.RequestSignals{Query: map[string]string{"format": "geo"}}
		result := strict.Classify(sig)
		require.True(t, result.IsAI)
		assert.Equal(t, geogate.ConfidenceHigh, result.Confidence)
	})

	t.Run("query variants", func(t *testing.T) {
		t.Parallel()

		for _, q := range []map[string]string{
			{"ai": "true"},
			{"bot": "1"},
			{"geo": "1"},
		} {
			assert.True(t, c.Classify(geogate.RequestSignals{Query: q}).IsAI, "query %v", q)
		}
	})

	t.Run("unrelated query values do not trigger", func(t *testing.T) {
		t.Parallel()

		sig := geogate.RequestSignals{Query: map[string]string{"format": "rss", "ai": "maybe"}}
		assert.False(t, c.Classify(sig).IsAI)
	})
}

func TestClassifier_AcceptHeuristic(t *testing.T) {
	t.Parallel()

	c := detect.NewClassifier()
	strict := detect.NewClassifier(detect.WithStrictMode())

	t.Run("structured Accept without text/html", func(t *testing.T) {
		t.Parallel()

		result := c.Classify(geogate.RequestSignals{Accept: "application/ld+json"})
		assert.True(t, result.IsAI)
		assert.Equal(t, geogate.ConfidenceMedium, result.Confidence)
	})

	t.Run("Accept listing text/html does not trigger", func(t *testing.T) {
		t.Parallel()

		result := c.Classify(geogate.RequestSignals{UserAgent: curlUA, Accept: "text/html,application/json"})
		assert.False(t, result.IsAI)
	})

	t.Run("disabled under strict mode", func(t *testing.T) {
		t.Parallel()

		result := strict.Classify(geogate.RequestSignals{Accept: "application/json"})
		assert.False(t, result.IsAI)
	})
}

func TestClassifier_SuspiciousAgents(t *testing.T) {
	t.Parallel()

	c := detect.NewClassifier()

	for _, ua := range []string{curlUA, pythonUA, "Go-http-client/2.0", ""} {
		result := c.Classify(geogate.RequestSignals{UserAgent: ua})
		assert.False(t, result.IsAI, "ua=%q", ua)
		assert.Equal(t, geogate.ConfidenceMedium, result.Confidence, "ua=%q", ua)
	}
}

func TestClassifier_ServiceOf(t *testing.T) {
	t.Parallel()

	c := detect.NewClassifier()

	tests := []struct {
		ua   string
		want geogate.AIService
	}{
		{gptBotUA, geogate.ServiceOpenAI},
		{claudeUA, geogate.ServiceAnthropic},
		{googleExt, geogate.ServiceGoogle},
		{pplBotUA, geogate.ServicePerplexity},
		{youComUA, geogate.ServiceYouCom},
		{spiderUA, geogate.ServiceByteDance},
		{ccBotUA, geogate.ServiceCommonCrawl},
		{amazonUA, geogate.ServiceAmazon},
	}
	for _, tt := range tests {
		service, ok := c.ServiceOf(geogate.RequestSignals{UserAgent: tt.ua})
		require.True(t, ok, "ua=%q", tt.ua)
		assert.Equal(t, tt.want, service)
	}

	_, ok := c.ServiceOf(geogate.RequestSignals{UserAgent: chromeUA})
	assert.False(t, ok)
}
