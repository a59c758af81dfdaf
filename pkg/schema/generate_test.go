package schema_test

import (
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_ParseModel(t *testing.T) {
	assert := assert.New(t)

	t.Run("Default", func(t *testing.T) {
		provider, name, err := schema.ParseModel(schema.DefaultModel)
		assert.NoError(err)
		assert.Equal("ollama", provider)
		assert.Equal("gemma2", name)
	})

	t.Run("NameWithSlash", func(t *testing.T) {
		provider, name, err := schema.ParseModel("ollama/library/gemma2:2b")
		assert.NoError(err)
		assert.Equal("ollama", provider)
		assert.Equal("library/gemma2:2b", name)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, model := range []string{"", "gemma2", "/gemma2", "ollama/"} {
			_, _, err := schema.ParseModel(model)
			assert.Error(err, model)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		provider, name, err := schema.ParseModel(schema.ModelName("ollama", "gemma2"))
		assert.NoError(err)
		assert.Equal(schema.DefaultModel, schema.ModelName(provider, name))
	})
}
