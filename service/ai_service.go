package service

import (
	"context"
)

// Answerer produces a raw model completion for a fully rendered prompt.
type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
	// Healthy verifies the engine is reachable; a failing check is
	// reported at startup and the pipeline does not proceed.
	Healthy(ctx context.Context) error
}
