package usecase

import (
	"context"
	"fmt"

	"snaps/internal/adapter/generation"
	"snaps/internal/adapter/retriever"
	"snaps/internal/domain"
	"snaps/internal/port"
	"snaps/internal/prompt"
)

// State is the position of a single conversion in the pipeline.
type State int

const (
	StateIdle State = iota
	StateRetrieving
	StateComposing
	StateGenerating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRetrieving:
		return "retrieving"
	case StateComposing:
		return "composing"
	case StateGenerating:
		return "generating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// validTransition reports whether a conversion may move from s to next.
// Failed is reachable from every non-terminal state; otherwise the pipeline
// only moves forward one stage at a time.
func validTransition(s, next State) bool {
	if next == StateFailed {
		return s != StateDone && s != StateFailed
	}
	return next == s+1 && s != StateFailed
}

// conversion tracks one request through the state machine. Each request gets
// its own conversion, so concurrent requests share no mutable state.
type conversion struct {
	state State
}

func (c *conversion) advance(next State) {
	if !validTransition(c.state, next) {
		panic(fmt.Sprintf("invalid conversion transition %s -> %s", c.state, next))
	}
	c.state = next
}

// Orchestrator is the public entry point for post conversion. It coordinates
// retrieval, prompt composition and generation, and owns the conversion
// history log.
type Orchestrator struct {
	retriever port.Retriever
	composer  *prompt.Composer
	generator port.Generator
	images    port.ImageProcessor
	stream    bool
	history   *HistoryLog
}

func NewOrchestrator(
	ret port.Retriever,
	composer *prompt.Composer,
	generator port.Generator,
	images port.ImageProcessor,
	stream bool,
) *Orchestrator {
	return &Orchestrator{
		retriever: ret,
		composer:  composer,
		generator: generator,
		images:    images,
		stream:    stream,
		history:   NewHistoryLog(),
	}
}

// Convert turns a request into a platform-adapted post. On success it
// appends exactly one record to the history log and returns the text. On
// failure at any stage — including caller cancellation mid-generation — it
// appends nothing and returns the triggering error unchanged, so callers can
// tell failure kinds apart with errors.As.
func (o *Orchestrator) Convert(ctx context.Context, req domain.ConversionRequest) (string, error) {
	conv := &conversion{state: StateIdle}

	conv.advance(StateRetrieving)
	chunks, err := o.retriever.Retrieve(ctx, req.InputPost)
	if err != nil {
		conv.advance(StateFailed)
		return "", err
	}

	conv.advance(StateComposing)
	promptText, err := o.composer.Compose(retriever.JoinContext(chunks), req)
	if err != nil {
		conv.advance(StateFailed)
		return "", err
	}

	conv.advance(StateGenerating)
	converted, err := o.generate(ctx, promptText)
	if err != nil {
		conv.advance(StateFailed)
		return "", err
	}
	if err := ctx.Err(); err != nil {
		// Cancelled while the final fragments were in flight; a partial
		// conversion must not reach the history.
		conv.advance(StateFailed)
		return "", &domain.GenerationError{Err: err}
	}

	conv.advance(StateDone)
	o.history.Append(domain.ConversionRecord{
		InputPost:      req.InputPost,
		SourcePlatform: req.SourcePlatform,
		TargetPlatform: req.TargetPlatform,
		ConvertedPost:  converted,
		ImageURL:       req.ImageURL,
	})
	return converted, nil
}

func (o *Orchestrator) generate(ctx context.Context, promptText string) (string, error) {
	if !o.stream {
		return o.generator.Generate(ctx, promptText)
	}
	stream, err := o.generator.GenerateStream(ctx, promptText)
	if err != nil {
		return "", err
	}
	return generation.Collect(stream)
}

// ProcessImage runs the image side-channel: raw image bytes and the target
// platform go to the external processing collaborator, which applies that
// platform's transform descriptor and returns the transformed bytes.
func (o *Orchestrator) ProcessImage(data []byte, targetPlatform string) ([]byte, error) {
	if o.images == nil {
		return nil, fmt.Errorf("no image processor configured")
	}
	return o.images.Process(data, targetPlatform)
}

// History returns an ordered, read-only snapshot of completed conversions.
func (o *Orchestrator) History() []domain.ConversionRecord {
	return o.history.Records()
}

// ExportHistory writes the current history snapshot to a sink.
func (o *Orchestrator) ExportHistory(sink port.HistorySink) error {
	return sink.Write(o.history.Records())
}
