package audit

import (
	"context"
	"time"

	"go-leave/internal/guard"

	"gorm.io/gorm"
)

// Entry describes one mutating action for the append-only trail.
type Entry struct {
	Actor       guard.Principal
	Action      string
	TargetTable string
	TargetID    int64
}

// Recorder appends audit entries. Record must be called with the caller's
// open transaction so the entry commits or rolls back with the mutation
// it describes.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry Entry) error
}

type recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) Recorder {
	return &recorder{repo: repo}
}

func (r *recorder) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	repo := r.repo
	if tx != nil {
		repo = r.repo.WithTx(tx)
	}
	return repo.Create(ctx, &AuditLog{
		ActorType:   string(entry.Actor.Role),
		ActorID:     entry.Actor.ID,
		Action:      entry.Action,
		TargetTable: entry.TargetTable,
		TargetID:    entry.TargetID,
		Timestamp:   time.Now().UTC(),
	})
}
