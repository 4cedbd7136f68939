// Package steplog defines the audit trail written by the coordinator.
//
// Every state transition of an order's pipeline becomes one append-only
// entry carrying the trace and span ids active at the time, so a chaos run
// can be analysed afterwards and each row joined with its distributed trace.
// The log is best-effort: a failed write never fails an order.
package steplog

import "time"

// Entry is a single row in the step_logs table.
type Entry struct {
	// OrderID identifies the pipeline run.
	OrderID string

	// State is the order state entered by this transition, e.g.
	// CHECKING_INVENTORY or PAYMENT_FAILED.
	State string

	// Step is the name of the step that produced the transition. Empty for
	// the initial entry.
	Step string

	// Payload is the JSON-serialised order request. Written once on the
	// initial entry.
	Payload string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
