package domain

import "fmt"

// ConfigError reports an invalid or missing configuration value. Fatal at
// construction, never retried.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadError reports an inaccessible or empty corpus. Fatal at startup.
type LoadError struct {
	Dir string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load corpus %s: %v", e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RetrievalError reports an embedding or index query failure during a
// conversion. The conversion is marked failed; no history record is written.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError reports a model call failure, including network errors and
// quota exhaustion. Single attempt; the caller decides what to do next.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
