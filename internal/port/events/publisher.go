// Package events defines the event publishing port (interface).
package events

import "context"

// Publisher fans audit events out to interested consumers. Publication is
// best-effort: the audit side channel never fails a request.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
