package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sca-hospital/activos-backend/pkg/db/models"
	"github.com/sca-hospital/activos-backend/pkg/enums"
	"github.com/sca-hospital/activos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Recorder appends structured audit entries. When handed a transaction via
// WithTx the append shares that transaction's fate; otherwise each call is
// its own atomic write.
type Recorder interface {
	WithTx(tx *gorm.DB) Recorder
	Record(ctx context.Context, actorID *int64, action enums.AuditAction, detail map[string]any) (*models.AuditEntry, error)
	List(ctx context.Context, params pagination.Params) ([]models.AuditEntry, error)
}

type recorder struct {
	repo Repository
}

// NewRecorder wires an audit recorder with the provided repository.
func NewRecorder(repo Repository) (Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &recorder{repo: repo}, nil
}

func (r *recorder) WithTx(tx *gorm.DB) Recorder {
	if tx == nil {
		return r
	}
	return &recorder{repo: r.repo.WithTx(tx)}
}

func (r *recorder) Record(ctx context.Context, actorID *int64, action enums.AuditAction, detail map[string]any) (*models.AuditEntry, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid audit action %q", action)
	}

	var raw json.RawMessage
	if detail != nil {
		encoded, err := json.Marshal(detail)
		if err != nil {
			return nil, fmt.Errorf("encoding audit detail: %w", err)
		}
		raw = encoded
	}

	entry := &models.AuditEntry{
		ActorUserID: actorID,
		Action:      action,
		Detail:      raw,
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *recorder) List(ctx context.Context, params pagination.Params) ([]models.AuditEntry, error) {
	return r.repo.List(ctx, params)
}
