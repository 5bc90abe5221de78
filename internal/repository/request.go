package repository

import (
	"context"
	"errors"

	"github.com/Thintalltom/Paperless-Audit/internal/cache"
	"github.com/Thintalltom/Paperless-Audit/internal/models"
	"github.com/Thintalltom/Paperless-Audit/internal/observability"

	"gorm.io/gorm"
)

// RequestFilter narrows List results. Zero values mean "no filter".
type RequestFilter struct {
	Status    models.RequestStatus
	CreatedBy uint
	Limit     int
	Offset    int
}

// RequestRepository defines persistence operations for expense requests.
type RequestRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]models.Request, error)
	Create(ctx context.Context, req *models.Request) error
	// UpdateTransition persists the result of an approval action using an
	// optimistic compare-and-swap on the level and status the actor saw.
	UpdateTransition(ctx context.Context, req *models.Request, fromLevel int) error
	// UpdateEditable persists the creator-editable fields of a request.
	UpdateEditable(ctx context.Context, req *models.Request) error
	Delete(ctx context.Context, id uint) error
}

type requestRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewRequestRepository returns a new RequestRepository implementation.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{
		db:   db,
		logs: observability.NewRepoLogger("requests"),
	}
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	defer observability.TrackQuery("select", "requests")()

	var req models.Request
	key := cache.RequestKey(id)

	err := cache.Aside(ctx, key, &req, cache.RequestTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("Creator").First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Request", id)
			}
			return models.NewPersistenceError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]models.Request, error) {
	defer observability.TrackQuery("select", "requests")()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	q := r.db.WithContext(ctx).Model(&models.Request{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CreatedBy != 0 {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}

	var requests []models.Request
	if err := q.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&requests).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return requests, nil
}

func (r *requestRepository) Create(ctx context.Context, req *models.Request) error {
	defer observability.TrackQuery("insert", "requests")()

	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	r.logs.LogCreate(ctx, map[string]interface{}{"request_id": req.ID, "created_by": req.CreatedBy})
	return nil
}

// UpdateTransition writes the post-action state guarded by the level and
// pending status the actor acted against. Zero rows affected means another
// approver got there first and the caller must surface a conflict.
func (r *requestRepository) UpdateTransition(ctx context.Context, req *models.Request, fromLevel int) error {
	defer observability.TrackQuery("update", "requests")()

	res := r.db.WithContext(ctx).Model(&models.Request{}).
		Where("id = ? AND current_approval_level = ? AND status = ?",
			req.ID, fromLevel, models.StatusPending).
		Select("status", "current_approval_level", "approval_status", "approval_history").
		Updates(req)
	if res.Error != nil {
		return models.NewPersistenceError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewConflictError()
	}

	cache.InvalidateRequest(ctx, req.ID)
	r.logs.LogUpdate(ctx, map[string]interface{}{
		"request_id": req.ID,
		"from_level": fromLevel,
		"to_level":   req.CurrentApprovalLevel,
		"status":     req.Status,
	})
	return nil
}

func (r *requestRepository) UpdateEditable(ctx context.Context, req *models.Request) error {
	defer observability.TrackQuery("update", "requests")()

	res := r.db.WithContext(ctx).Model(&models.Request{}).
		Where("id = ?", req.ID).
		Select("supplier_name", "amount", "description", "account_name", "attachments").
		Updates(req)
	if res.Error != nil {
		return models.NewPersistenceError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Request", req.ID)
	}

	cache.InvalidateRequest(ctx, req.ID)
	r.logs.LogUpdate(ctx, map[string]interface{}{"request_id": req.ID})
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "requests")()

	if err := r.db.WithContext(ctx).Delete(&models.Request{}, id).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	cache.InvalidateRequest(ctx, id)
	r.logs.LogDelete(ctx, map[string]interface{}{"request_id": id})
	return nil
}
