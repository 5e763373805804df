package port

import "snaps/internal/domain"

// HistorySink persists an ordered snapshot of conversion records.
type HistorySink interface {
	Write(records []domain.ConversionRecord) error
}
