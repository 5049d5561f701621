package assistant

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/techassist/internal/core"
)

// ContextPlaceholder is replaced with the retrieved documents.
const ContextPlaceholder = "{context}"

//go:embed default_prompt.md
var defaultTemplate string

// Prompt renders the system message around retrieved documents.
type Prompt struct {
	template string
}

// NewPrompt returns the built-in template, or the file configured by
// cfg when one is set. The file is read once.
func NewPrompt(cfg core.PromptConfig) (*Prompt, error) {
	path := cfg.GetSystemPromptPath()
	if path == "" {
		return DefaultPrompt(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system prompt: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("system prompt %s is empty", path)
	}
	return NewPromptFromTemplate(string(data)), nil
}

func DefaultPrompt() *Prompt {
	return NewPromptFromTemplate(defaultTemplate)
}

// NewPromptFromTemplate wraps tmpl. A template without the placeholder
// gets a context block appended so documents are never silently dropped.
func NewPromptFromTemplate(tmpl string) *Prompt {
	if !strings.Contains(tmpl, ContextPlaceholder) {
		tmpl = strings.TrimRight(tmpl, "\n") + "\n<context>\n" + ContextPlaceholder + "\n</context>\n"
	}
	return &Prompt{template: tmpl}
}

func (p *Prompt) Template() string {
	return p.template
}

// Render stuffs the document contents, separated by a blank line, into the
// template.
func (p *Prompt) Render(docs []core.Document) string {
	return strings.ReplaceAll(p.template, ContextPlaceholder, joinDocuments(docs))
}

func joinDocuments(docs []core.Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, "\n\n")
}
