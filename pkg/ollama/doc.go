// Package ollama provides a model-serving plugin for a locally running
// Ollama server.
//
// Create a plugin with the models which may be used for generation:
//
//	plugin, err := ollama.New("http://127.0.0.1:11434", []string{"gemma2"})
//	if err != nil {
//	   panic(err)
//	}
//
// Then register it with the manager, and address the models as
// "ollama/gemma2".
package ollama
