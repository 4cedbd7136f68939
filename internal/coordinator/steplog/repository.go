package steplog

import "context"

// Recorder persists step log entries. Each call appends a row.
type Recorder interface {
	Save(ctx context.Context, entry *Entry) error
}
