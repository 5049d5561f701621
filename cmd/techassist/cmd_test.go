package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/techassist/internal/core"
)

func TestWriteStarterFiles(t *testing.T) {
	dir := t.TempDir()

	envPath, err := writeStarterFiles(dir, "groq", "gsk_test", false)
	require.NoError(t, err)

	values, err := godotenv.Read(envPath)
	require.NoError(t, err)
	assert.Equal(t, "groq", values["LLM_PROVIDER"])
	assert.Equal(t, "gsk_test", values["GROQ_API_KEY"])
	assert.Equal(t, "prompt.md", values["SYSTEM_PROMPT_FILE"])

	prompt, err := os.ReadFile(filepath.Join(dir, "prompt.md"))
	require.NoError(t, err)
	assert.Contains(t, string(prompt), "{context}")

	_, err = writeStarterFiles(dir, "groq", "gsk_test", false)
	assert.Error(t, err)

	_, err = writeStarterFiles(dir, "ollama", "", true)
	require.NoError(t, err)
}

func TestWriteStarterFiles_UnknownProvider(t *testing.T) {
	_, err := writeStarterFiles(t.TempDir(), "bard", "", false)
	assert.Error(t, err)
}

func TestReadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"fromMe":true,"body":"PDO não liga"},{"fromMe":false,"body":"Verifique alimentação"}]`), 0o600))

	history, err := readHistory(path)
	require.NoError(t, err)
	assert.Equal(t, []core.HistoryEntry{
		{FromMe: true, Body: "PDO não liga"},
		{FromMe: false, Body: "Verifique alimentação"},
	}, history)

	none, err := readHistory("")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = readHistory(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
