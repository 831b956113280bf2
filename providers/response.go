package providers

import (
	"encoding/json"
	"errors"

	"github.com/invopop/jsonschema"
)

// ErrNotStructured is returned by Response.Unmarshal for plain text responses.
var ErrNotStructured = errors.New("response is not structured")

// Content is a sealed interface for the two shapes a response can take.
type Content interface {
	isContent()
}

// Response is the result of a successful Generate call.
type Response struct {
	Content Content
}

// String returns the raw text. For structured content it returns the body
// the value was decoded from.
func (r *Response) String() string {
	switch c := r.Content.(type) {
	case Text:
		return c.Value
	case Structured:
		return string(c.Raw)
	default:
		return ""
	}
}

// IsStructured reports whether the response was decoded as JSON.
func (r *Response) IsStructured() bool {
	_, ok := r.Content.(Structured)
	return ok
}

// Value returns the decoded JSON value, or the text for plain responses.
func (r *Response) Value() any {
	switch c := r.Content.(type) {
	case Text:
		return c.Value
	case Structured:
		return c.Value
	default:
		return nil
	}
}

// Unmarshal decodes a structured response body into v.
func (r *Response) Unmarshal(v any) error {
	c, ok := r.Content.(Structured)
	if !ok {
		return ErrNotStructured
	}
	return json.Unmarshal(c.Raw, v)
}

// Text is a response body returned verbatim.
type Text struct {
	Value string
}

func (t Text) isContent() {}

// Structured is a response body decoded as JSON.
type Structured struct {
	Value any
	Raw   []byte
}

func (s Structured) isContent() {}

// SchemaFor reflects a JSON schema from a Go value, for callers that want
// to describe the structure they expect back.
func SchemaFor(v any) *jsonschema.Schema {
	return jsonschema.Reflect(v)
}

// AnySchema is a permissive schema that only requests structured output.
func AnySchema() *jsonschema.Schema {
	return &jsonschema.Schema{}
}
