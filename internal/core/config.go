package core

type PromptConfig interface {
	GetSystemPromptPath() string
}
