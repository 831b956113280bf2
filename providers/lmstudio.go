package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/teilomillet/lmbridge/config"
	"github.com/teilomillet/lmbridge/logging"
	"github.com/teilomillet/lmbridge/metrics"
)

// LMStudioName is the registry name of the LM Studio provider.
const LMStudioName = "lmstudio"

const generatePath = "/generate"

// LMStudioProvider calls a locally hosted LM Studio server. All fields are
// set at construction, so a single instance may serve concurrent calls.
type LMStudioProvider struct {
	serverURL string
	model     string
	apiKey    string
	client    *http.Client
	logger    logging.Logger
	metrics   *metrics.Collector
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

// NewLMStudioProvider creates a new LM Studio provider instance.
//
// Recognized configuration:
//   - ServerURL: base URL of the LM Studio HTTP API (required)
//   - Model: model identifier sent with each request (optional)
//   - APIKey: sent as "Authorization: Bearer <key>" when set (optional)
//   - Timeout: per-request timeout, 60s by default
//
// No network activity happens here. A missing server URL yields a
// ConfigurationError.
func NewLMStudioProvider(cfg *config.Config, opts ...Option) (Provider, error) {
	if cfg == nil {
		return nil, NewProviderError(ErrorTypeConfiguration, LMStudioName, "configuration is required", config.ErrMissingServerURL)
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewProviderError(ErrorTypeConfiguration, LMStudioName, "LM Studio provider requires a valid server_url", err)
	}

	o := newOptions(opts)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	var client *http.Client
	if o.httpClient != nil {
		c := *o.httpClient
		if c.Timeout == 0 {
			c.Timeout = timeout
		}
		client = &c
	} else {
		client = &http.Client{Timeout: timeout}
	}

	return &LMStudioProvider{
		serverURL: cfg.ServerURL,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		client:    client,
		logger:    o.logger,
		metrics:   o.metrics,
	}, nil
}

// Name returns "lmstudio".
func (p *LMStudioProvider) Name() string {
	return LMStudioName
}

// Endpoint returns the server URL without trailing slashes plus /generate.
func (p *LMStudioProvider) Endpoint() string {
	return strings.TrimRight(p.serverURL, "/") + generatePath
}

// Headers returns the HTTP headers sent with every request.
func (p *LMStudioProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
	}
	return headers
}

// PrepareRequest creates the JSON request body. The prompt is forwarded
// as-is, including when empty.
func (p *LMStudioProvider) PrepareRequest(prompt string) ([]byte, error) {
	return json.Marshal(generateRequest{
		Prompt: prompt,
		Model:  p.model,
	})
}

// ParseResponse interprets a successful response body. Without a schema
// the body is returned verbatim; with one it must be valid JSON.
func (p *LMStudioProvider) ParseResponse(body []byte, schema *jsonschema.Schema) (*Response, error) {
	if schema == nil {
		return &Response{Content: Text{Value: string(body)}}, nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, NewProviderError(ErrorTypeDecoding, LMStudioName, "failed to parse JSON response from LM Studio", err)
	}
	return &Response{Content: Structured{Value: value, Raw: body}}, nil
}

// Generate performs one POST to Endpoint. Failures are not retried.
func (p *LMStudioProvider) Generate(ctx context.Context, prompt string, schema *jsonschema.Schema) (*Response, error) {
	start := time.Now()

	resp, err := p.generate(ctx, prompt, schema)
	p.metrics.Observe(LMStudioName, p.model, outcomeOf(err), time.Since(start))
	return resp, err
}

func (p *LMStudioProvider) generate(ctx context.Context, prompt string, schema *jsonschema.Schema) (*Response, error) {
	reqBody, err := p.PrepareRequest(prompt)
	if err != nil {
		return nil, p.transportError("failed to encode request", 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, p.transportError("failed to create request", 0, err)
	}
	for k, v := range p.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.transportError("LM Studio request failed", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, p.transportError("failed to read response body", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, p.transportError("LM Studio request failed", resp.StatusCode,
			fmt.Errorf("unexpected status %s: %s", resp.Status, truncate(body, 512)))
	}

	return p.ParseResponse(body, schema)
}

// transportError logs the failure and returns it as a TransportError.
func (p *LMStudioProvider) transportError(message string, status int, cause error) error {
	perr := NewProviderError(ErrorTypeTransport, LMStudioName, message, cause)
	perr.StatusCode = status
	p.logger.Error(message, perr.LoggableFields()...)
	return perr
}

func outcomeOf(err error) string {
	switch KindOf(err) {
	case ErrorTypeUnknown:
		if err == nil {
			return metrics.OutcomeOK
		}
		return metrics.OutcomeTransportError
	case ErrorTypeDecoding:
		return metrics.OutcomeDecodingError
	default:
		return metrics.OutcomeTransportError
	}
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
