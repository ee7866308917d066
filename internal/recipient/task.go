// Package recipient turns roster rows into dispatchable work: it normalizes
// phone numbers into dispatch addresses, locates each recipient's artifact on
// disk and reads the CSV roster the CLI feeds to the orchestrator.
package recipient

// Task is one roster entry. It is created by ingestion, never mutated, and
// consumed exactly once per run.
type Task struct {
	Name      string `json:"name"`
	RawNumber string `json:"number"`
	Row       int    `json:"row,omitempty"` // 1-based data row in the source list
}
