package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	resp := &Response{Content: Text{Value: "plain"}}

	assert.False(t, resp.IsStructured())
	assert.Equal(t, "plain", resp.String())
	assert.Equal(t, "plain", resp.Value())

	var v map[string]any
	assert.ErrorIs(t, resp.Unmarshal(&v), ErrNotStructured)
}

func TestResponseStructured(t *testing.T) {
	raw := []byte(`{"events": ["login", "logout"]}`)
	resp := &Response{Content: Structured{
		Value: map[string]any{"events": []any{"login", "logout"}},
		Raw:   raw,
	}}

	assert.True(t, resp.IsStructured())
	assert.Equal(t, string(raw), resp.String())

	var typed struct {
		Events []string `json:"events"`
	}
	require.NoError(t, resp.Unmarshal(&typed))
	assert.Equal(t, []string{"login", "logout"}, typed.Events)
}

func TestResponseEmpty(t *testing.T) {
	resp := &Response{}
	assert.Equal(t, "", resp.String())
	assert.Nil(t, resp.Value())
}

func TestSchemaFor(t *testing.T) {
	type summary struct {
		Title string `json:"title"`
	}
	schema := SchemaFor(&summary{})
	require.NotNil(t, schema)

	data, err := schema.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "title")
}
