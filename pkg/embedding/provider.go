// Package embedding turns prompt text into vectors for the similarity
// search over generation history. Two interchangeable backends exist:
// Gemini's embedContent API and a self-hosted Ollama model.
package embedding

// EmbeddingProvider generates one embedding per call. taskType is a
// Gemini concept (RETRIEVAL_DOCUMENT for stored prompts, RETRIEVAL_QUERY
// for searches); Ollama ignores it.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
