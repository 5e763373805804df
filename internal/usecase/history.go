package usecase

import (
	"sync"

	"snaps/internal/domain"
)

// HistoryLog is an owned, append-only, ordered record of completed
// conversions. There is no process-wide instance; the orchestrator that owns
// the log is the only writer.
type HistoryLog struct {
	mu      sync.Mutex
	records []domain.ConversionRecord
}

func NewHistoryLog() *HistoryLog {
	return &HistoryLog{}
}

// Append adds a record at the end of the log. Records arrive in completion
// order because each conversion appends only once, when it finishes.
func (l *HistoryLog) Append(rec domain.ConversionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Records returns a copy of the log. Callers get a read-only snapshot; the
// log itself is never exposed for mutation.
func (l *HistoryLog) Records() []domain.ConversionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.ConversionRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *HistoryLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
