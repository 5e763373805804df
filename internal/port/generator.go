package port

import "context"

// Generator produces text from a composed prompt. Model identity and
// temperature are fixed at construction so conversions are reproducible
// across a session.
type Generator interface {
	// Generate returns the full completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream returns an incremental completion. Fragments arrive
	// in order; concatenating them reconstructs the full response.
	GenerateStream(ctx context.Context, prompt string) (Stream, error)

	// ModelName returns the name of the generation model.
	ModelName() string
}

// Stream yields completion fragments in arrival order. Recv returns io.EOF
// when the stream is complete; any other error means the response is
// incomplete and must not be used.
type Stream interface {
	Recv() (string, error)
	Close() error
}
