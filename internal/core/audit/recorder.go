// Package audit defines the domain-facing contract for change recording.
package audit

import (
	"context"

	"tourops/internal/core/id"
)

// Recorder persists an audit trail entry for a committed mutation.
// Implementations run inside the caller's transaction when one is active,
// so the trail commits or rolls back together with the change itself.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
