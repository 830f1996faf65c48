package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/statement-parser/internal/entity"
)

// StatementRepository is the durable store for parsed statements, keyed by
// id and (uniquely) by content hash.
//
// InsertOrGet is the duplicate guard's write path: it must be atomic with
// respect to concurrent submissions of the same bytes. The loser of a
// same-hash race observes the winner's row (dedup=true) instead of an error.
type StatementRepository interface {
	FindByHash(ctx context.Context, fileHash string) (*entity.StatementRecord, error)
	// InsertOrGet persists rec unless a record with its file_hash already
	// exists, in which case the existing record is returned with dedup=true.
	InsertOrGet(ctx context.Context, rec *entity.StatementRecord) (*entity.StatementRecord, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StatementRecord, error)
	List(ctx context.Context) ([]*entity.StatementRecord, error)
	// UpdateFields applies a field-level patch and bumps updated_at. Bank and
	// file_hash are not part of the patch surface and never change.
	UpdateFields(ctx context.Context, id uuid.UUID, patch entity.FieldPatch) (*entity.StatementRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
