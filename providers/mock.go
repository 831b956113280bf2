package providers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/teilomillet/lmbridge/config"
)

// MockName is the registry name of MockProvider.
const MockName = "mock"

// MockProvider implements the Provider interface for testing purposes.
// It returns queued responses without any network activity.
type MockProvider struct {
	mu            sync.Mutex
	model         string
	responseText  string
	mockErr       error
	responses     []string // Queue of preset responses
	currentIndex  int      // Current position in response queue
	loopResponses bool     // Whether to loop through responses or error when exhausted
	prompts       []string
}

// NewMockProvider creates a mock provider. It accepts any configuration,
// including one without a server URL.
func NewMockProvider(cfg *config.Config, _ ...Option) (Provider, error) {
	model := ""
	if cfg != nil {
		model = cfg.Model
	}
	return &MockProvider{
		model:        model,
		responseText: "This is a mock response",
	}, nil
}

func (p *MockProvider) Name() string { return MockName }

// SetMockResponse configures the default response text
func (p *MockProvider) SetMockResponse(response string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responseText = response
}

// SetMockError makes every Generate call fail with err. Pass nil to clear.
func (p *MockProvider) SetMockError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mockErr = err
}

// SetResponses configures a list of responses to be returned in sequence
func (p *MockProvider) SetResponses(responses []string, loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = responses
	p.currentIndex = 0
	p.loopResponses = loop
}

// Prompts returns every prompt received so far.
func (p *MockProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.prompts...)
}

// getNextResponse returns the next response from the queue. Callers hold mu.
func (p *MockProvider) getNextResponse() (string, error) {
	if len(p.responses) == 0 {
		return p.responseText, nil
	}

	if p.currentIndex >= len(p.responses) {
		if !p.loopResponses {
			return "", errors.New("mock responses exhausted")
		}
		p.currentIndex = 0
	}

	response := p.responses[p.currentIndex]
	p.currentIndex++
	return response, nil
}

// Generate returns the next queued response. With a schema the response
// text is decoded as JSON, matching the LM Studio provider.
func (p *MockProvider) Generate(ctx context.Context, prompt string, schema *jsonschema.Schema) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewProviderError(ErrorTypeTransport, MockName, "context done", err)
	}

	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	if p.mockErr != nil {
		err := p.mockErr
		p.mu.Unlock()
		return nil, err
	}
	text, err := p.getNextResponse()
	p.mu.Unlock()
	if err != nil {
		return nil, NewProviderError(ErrorTypeTransport, MockName, "no response available", err)
	}

	if schema == nil {
		return &Response{Content: Text{Value: text}}, nil
	}
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, NewProviderError(ErrorTypeDecoding, MockName, "failed to parse JSON response", err)
	}
	return &Response{Content: Structured{Value: value, Raw: []byte(text)}}, nil
}
