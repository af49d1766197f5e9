package ai

import "context"

// Generator produces free text from a system instruction and a user message.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
	Provider() string
}
