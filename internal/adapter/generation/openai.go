package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"snaps/internal/domain"
	"snaps/internal/port"
)

// OpenAIGenerator produces completions via the OpenAI chat API. Model and
// temperature are fixed at construction, not per call, so conversions stay
// reproducible across a session. Every call runs under a configurable
// timeout; there is no automatic retry — a silent retry could duplicate
// billed generation calls.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func NewOpenAIGenerator(apiKeyEnv, model string, temperature float32, timeout time.Duration) (*OpenAIGenerator, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, &domain.ConfigError{
			Field: "generation.api_key_env",
			Err:   errors.New("API key not set in environment: " + apiKeyEnv),
		}
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

// Generate returns the full completion for the prompt.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, g.request(prompt))
	if err != nil {
		return "", &domain.GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.GenerationError{Err: errors.New("no response choices returned")}
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateStream returns an incremental completion. The stream's timeout
// covers the whole response; Close releases it.
func (g *OpenAIGenerator) GenerateStream(ctx context.Context, prompt string) (port.Stream, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)

	inner, err := g.client.CreateChatCompletionStream(ctx, g.request(prompt))
	if err != nil {
		cancel()
		return nil, &domain.GenerationError{Err: err}
	}

	return &openaiStream{inner: inner, cancel: cancel}, nil
}

func (g *OpenAIGenerator) ModelName() string {
	return g.model
}

func (g *OpenAIGenerator) request(prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
}

type openaiStream struct {
	inner  *openai.ChatCompletionStream
	cancel context.CancelFunc
}

func (s *openaiStream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	if err != nil {
		return "", &domain.GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *openaiStream) Close() error {
	s.cancel()
	return s.inner.Close()
}

// Collect concatenates stream fragments in arrival order until EOF. If the
// stream breaks before completing, Collect returns the error and no text:
// partial streamed output must never be passed off as a complete response.
func Collect(stream port.Stream) (string, error) {
	defer stream.Close()

	var sb []byte
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return string(sb), nil
		}
		if err != nil {
			var genErr *domain.GenerationError
			if errors.As(err, &genErr) {
				return "", err
			}
			return "", &domain.GenerationError{Err: fmt.Errorf("stream interrupted: %w", err)}
		}
		sb = append(sb, fragment...)
	}
}
