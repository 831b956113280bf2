// Package providers defines the provider contract, the registry that maps
// provider names to constructors, and the LM Studio adapter.
package providers

import (
	"context"
	"net/http"

	"github.com/invopop/jsonschema"

	"github.com/teilomillet/lmbridge/config"
	"github.com/teilomillet/lmbridge/logging"
	"github.com/teilomillet/lmbridge/metrics"
)

// Provider is the capability every registered backend exposes.
type Provider interface {
	// Name returns the registry name of the provider.
	Name() string

	// Generate sends prompt to the backend. A non-nil schema requests a
	// structured (JSON-decoded) response; it is not used for validation.
	Generate(ctx context.Context, prompt string, schema *jsonschema.Schema) (*Response, error)
}

// ProviderConstructor builds a provider from a configuration bundle.
type ProviderConstructor func(cfg *config.Config, opts ...Option) (Provider, error)

// Option customizes provider construction.
type Option func(*options)

type options struct {
	logger     logging.Logger
	httpClient *http.Client
	metrics    *metrics.Collector
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NewLogger(logging.LogLevelWarn)
	}
	return o
}

// WithLogger sets the logger used for transport failures.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client. Its Timeout is overwritten with
// the configured request timeout only when it has none.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = collector
	}
}
