package matchd

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	profiles     ProfileSource
	interactions InteractionStore
	filters      FiltersSource
	picker       Picker
	notifier     Notifier

	openAI *openAIConfig

	reservedIDs     []string
	testPattern     *regexp.Regexp
	reasonCacheSize int
	magicPoolSize   int
	magicTimeout    time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type openAIConfig struct {
	apiKey, baseURL, model string
}

// WithMemoryStore uses s for profiles, filters and interactions.
func WithMemoryStore(s *MemoryStore) Option {
	return optionFunc(func(c *clientConfig) {
		c.profiles = s
		c.interactions = s
		c.filters = s.FiltersReader()
	})
}

// WithProfileSource sets where profiles are read from.
func WithProfileSource(p ProfileSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.profiles = p
	})
}

// WithInteractionStore sets where actions and matches are kept.
func WithInteractionStore(s InteractionStore) Option {
	return optionFunc(func(c *clientConfig) {
		c.interactions = s
	})
}

// WithFilters sets where saved viewer filters are read from.
// Without it ranking applies no hard filters.
func WithFilters(f FiltersSource) Option {
	return optionFunc(func(c *clientConfig) {
		c.filters = f
	})
}

// WithPicker sets the generative model used by MagicMatch.
func WithPicker(p Picker) Option {
	return optionFunc(func(c *clientConfig) {
		c.picker = p
	})
}

// WithOpenAI uses an OpenAI-compatible chat completion API as the picker.
// An empty baseURL means api.openai.com.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAI = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithNotifier receives mutual match and magic request events.
func WithNotifier(n Notifier) Option {
	return optionFunc(func(c *clientConfig) {
		c.notifier = n
	})
}

// WithReservedIDs hides system and placeholder accounts from every pool.
func WithReservedIDs(ids ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.reservedIDs = append(c.reservedIDs, ids...)
	})
}

// WithTestAccountPattern replaces the default test/demo name pattern.
// Pass nil to disable the check.
func WithTestAccountPattern(re *regexp.Regexp) Option {
	return optionFunc(func(c *clientConfig) {
		c.testPattern = re
	})
}

// WithReasonCacheSize sets how many Magic Match justifications are kept.
// Default: 4096.
func WithReasonCacheSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.reasonCacheSize = n
	})
}

// WithMagicPoolSize caps how many candidates are sent to the picker (max 10).
func WithMagicPoolSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.magicPoolSize = n
	})
}

// WithMagicTimeout bounds each picker call. Default: 15s.
func WithMagicTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.magicTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK and matching metrics on the given
// registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
