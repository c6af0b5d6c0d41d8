package ledger

import "time"

// Status enumerates the lifecycle states of an import item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusImporting Status = "importing"
	StatusImported  Status = "imported"
	StatusFailed    Status = "failed"
)

// Item records one downloaded file tracked by the pipeline.
type Item struct {
	ID           int64
	SourcePath   string
	Title        string
	Status       Status
	ErrorMessage string
	RunID        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ImportedAt   *time.Time
}

// HealthSummary aggregates ledger state for diagnostic output.
type HealthSummary struct {
	Total     int
	Pending   int
	Importing int
	Imported  int
	Failed    int
}
