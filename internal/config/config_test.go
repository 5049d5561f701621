package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TECHASSIST_RUNTIME_PATH", dir)

	c, err := LoadAppConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, c.TopK)
	assert.Equal(t, 0, c.MaxContextTokens)
	assert.False(t, c.EnableJournal)
	assert.Equal(t, "", c.GetSystemPromptPath())
	assert.Equal(t, filepath.Join(dir, "journal.db"), c.GetDatabasePath())
}

func TestLoadAppConfig_RejectsBadTopK(t *testing.T) {
	t.Setenv("RETRIEVER_TOP_K", "0")

	_, err := LoadAppConfig()
	assert.Error(t, err)
}

func TestAppConfig_PromptPathRelativeToRuntime(t *testing.T) {
	c := AppConfig{RuntimePath: "/srv/ta", SystemPromptFile: "prompt.md"}
	assert.Equal(t, "/srv/ta/prompt.md", c.GetSystemPromptPath())

	c.SystemPromptFile = "/etc/ta/prompt.md"
	assert.Equal(t, "/etc/ta/prompt.md", c.GetSystemPromptPath())
}

func TestLoadLLMConfig(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantErr   bool
		wantModel string
		wantKey   string
	}{
		{
			name:      "groq default",
			env:       map[string]string{"GROQ_API_KEY": "gsk"},
			wantModel: "llama-3.1-70b-versatile",
			wantKey:   "gsk",
		},
		{
			name:    "groq without key",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:      "ollama needs no key",
			env:       map[string]string{"LLM_PROVIDER": "ollama"},
			wantModel: "llama3.1",
		},
		{
			name:    "custom without url",
			env:     map[string]string{"LLM_PROVIDER": "custom", "LLM_MODEL": "x"},
			wantErr: true,
		},
		{
			name:      "explicit model wins",
			env:       map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": "sk", "LLM_MODEL": "gpt-4o"},
			wantModel: "gpt-4o",
			wantKey:   "sk",
		},
		{
			name:      "anthropic default max tokens",
			env:       map[string]string{"LLM_PROVIDER": "anthropic", "ANTHROPIC_API_KEY": "ak"},
			wantModel: "claude-3-5-haiku-latest",
			wantKey:   "ak",
		},
		{
			name:    "anthropic non-positive max tokens",
			env:     map[string]string{"LLM_PROVIDER": "anthropic", "ANTHROPIC_API_KEY": "ak", "ANTHROPIC_MAX_TOKENS": "0"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"LLM_PROVIDER": "bard"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GROQ_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			c, err := LoadLLMConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, c.Model)
			assert.Equal(t, tt.wantKey, c.APIKey())
			assert.Equal(t, 120*time.Second, c.Timeout)
		})
	}
}

func TestLoadRetrievalConfig(t *testing.T) {
	c, err := LoadRetrievalConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.ChromaURL)
	assert.Equal(t, "langchain", c.ChromaCollection)
	assert.Equal(t, EmbeddingTEI, c.EmbeddingProvider)

	t.Setenv("EMBEDDING_PROVIDER", "word2vec")
	_, err = LoadRetrievalConfig()
	assert.Error(t, err)
}

func TestLoadHTTPConfig(t *testing.T) {
	t.Setenv("HTTP_RATE_LIMIT", "2.5")

	c, err := LoadHTTPConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8090", c.Addr)
	assert.Equal(t, 2.5, c.RateLimit)
	assert.Equal(t, 10, c.RateBurst)
}
