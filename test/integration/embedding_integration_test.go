// FILE: test/integration/embedding_integration_test.go
// PURPOSE: Exercises the Ollama embedding provider against a local server.
// NOTE: Requires a running Ollama instance with the embedding model pulled;
//       skips itself when the server is unreachable.

package integration

import (
	"math"
	"net/http"
	"os"
	"testing"
	"time"

	"ai-imagestudio-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaBaseURL() string {
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:11434"
}

func requireOllama(t *testing.T) {
	t.Helper()
	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(ollamaBaseURL() + "/api/tags")
	if err != nil {
		t.Skipf("Skipping: Ollama not reachable at %s (%v)", ollamaBaseURL(), err)
	}
	resp.Body.Close()
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func TestOllamaEmbeddingGenerate(t *testing.T) {
	requireOllama(t)

	provider := embedding.NewOllamaProvider(ollamaBaseURL(), os.Getenv("OLLAMA_EMBED_MODEL"))

	res, err := provider.Generate("A red fox walking through fresh snow", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.NotEmpty(t, res.Embedding.Values)
	t.Logf("Embedding dimensions: %d", len(res.Embedding.Values))

	// The provider normalizes before returning, magnitude should be ~1
	sim := cosineSimilarity(res.Embedding.Values, res.Embedding.Values)
	assert.InDelta(t, 1.0, sim, 0.01, "self similarity of a normalized vector is 1")
}

func TestOllamaEmbeddingSimilarityOrdering(t *testing.T) {
	requireOllama(t)

	provider := embedding.NewOllamaProvider(ollamaBaseURL(), os.Getenv("OLLAMA_EMBED_MODEL"))

	embed := func(text, taskType string) []float32 {
		res, err := provider.Generate(text, taskType)
		require.NoError(t, err)
		return res.Embedding.Values
	}

	query := embed("a fox in snowy woods", "RETRIEVAL_QUERY")
	related := embed("an orange fox trotting across a snow covered forest", "RETRIEVAL_DOCUMENT")
	unrelated := embed("quarterly revenue spreadsheet with pivot tables", "RETRIEVAL_DOCUMENT")

	simRelated := cosineSimilarity(query, related)
	simUnrelated := cosineSimilarity(query, unrelated)
	t.Logf("similarity related=%.4f unrelated=%.4f", simRelated, simUnrelated)

	// This ordering is what the prompt search leans on
	assert.Greater(t, simRelated, simUnrelated)
}
