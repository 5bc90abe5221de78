// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Thintalltom/Paperless-Audit/internal/chain"
	"github.com/Thintalltom/Paperless-Audit/internal/models"
	"github.com/Thintalltom/Paperless-Audit/internal/notifications"
	"github.com/Thintalltom/Paperless-Audit/internal/observability"
	"github.com/Thintalltom/Paperless-Audit/internal/repository"
	"github.com/Thintalltom/Paperless-Audit/internal/workflow"
)

// MaxAttachmentSize is the per-file intake limit in bytes.
const MaxAttachmentSize = 2 * 1024 * 1024

// RequestService coordinates chain resolution, the approval state machine,
// persistence, and notifications for expense requests.
type RequestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	resolver    *chain.Resolver
	notifier    *notifications.Notifier
}

type CreateRequestInput struct {
	UserID      uint
	Supplier    string
	Amount      float64
	Description string
	AccountName string
	Attachments []models.Attachment
}

type ActInput struct {
	ActorID   uint
	RequestID uint
	Action    models.Action
	Comments  string
}

type ListRequestsInput struct {
	ActorID   uint
	ActorRole models.Role
	Status    models.RequestStatus
	Limit     int
	Offset    int
}

type UpdateRequestInput struct {
	ActorID     uint
	RequestID   uint
	Supplier    string
	Amount      float64
	Description string
	AccountName string
	Attachments []models.Attachment
}

// RequestDetail is a request together with its resolved chain and derived
// audit trail.
type RequestDetail struct {
	Request *models.Request       `json:"request"`
	Chain   []models.User         `json:"chain"`
	Trail   []workflow.AuditEntry `json:"audit_trail"`
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	resolver *chain.Resolver,
	notifier *notifications.Notifier,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		resolver:    resolver,
		notifier:    notifier,
	}
}

func validateAttachments(attachments []models.Attachment) error {
	for _, a := range attachments {
		if strings.TrimSpace(a.Name) == "" {
			return models.NewValidationError("Attachment name is required")
		}
		if a.Size > MaxAttachmentSize {
			return models.NewValidationError(fmt.Sprintf("Attachment %q exceeds the 2MB limit", a.Name))
		}
		if a.Content == "" {
			return models.NewValidationError(fmt.Sprintf("Attachment %q has no content", a.Name))
		}
	}
	return nil
}

// CreateRequest validates the submission, resolves and freezes the approval
// chain, persists the record at level 0, and notifies the first approver.
func (s *RequestService) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.Request, error) {
	if strings.TrimSpace(in.Supplier) == "" {
		return nil, models.NewValidationError("Supplier name is required")
	}
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Amount must be greater than zero")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if err := validateAttachments(in.Attachments); err != nil {
		return nil, err
	}

	creator, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.ResolveForCreate(ctx, creator.Domain())
	if err != nil {
		return nil, models.NewChainResolutionError(err)
	}
	if len(resolved) == 0 {
		observability.ChainResolutionFailures.Inc()
		return nil, models.NewChainResolutionError(fmt.Errorf("no approvers on the roster"))
	}

	req := &models.Request{
		InitiatorName:        creator.Name,
		SupplierName:         in.Supplier,
		Amount:               in.Amount,
		Description:          in.Description,
		AccountName:          in.AccountName,
		Attachments:          in.Attachments,
		Status:               models.StatusPending,
		CurrentApprovalLevel: 0,
		ApprovalStatus:       models.ApprovalStatusMap{},
		ApprovalHistory:      []models.HistoryEntry{},
		CreatedBy:            creator.ID,
	}
	if resolved[0].Role == chain.DomainScopedRole {
		req.BranchApproverID = resolved[0].ID
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	observability.RequestsCreated.Inc()

	s.notify(ctx, resolved[0].ID, notifications.Event{
		Type:      notifications.EventApprovalNeeded,
		RequestID: req.ID,
		Supplier:  req.SupplierName,
		Message:   fmt.Sprintf("%s submitted a request awaiting your approval", creator.Name),
	})

	return req, nil
}

// Act runs one approver decision through the state machine and persists it
// with an optimistic check on the level the actor saw.
func (s *RequestService) Act(ctx context.Context, in ActInput) (*models.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.ResolveForDisplay(ctx, req.BranchApproverID)
	if err != nil {
		return nil, models.NewChainResolutionError(err)
	}
	if len(resolved) == 0 {
		observability.ChainResolutionFailures.Inc()
	}

	fromLevel := req.CurrentApprovalLevel
	next, err := workflow.Apply(req, resolved, actor, in.Action, in.Comments)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.UpdateTransition(ctx, next, fromLevel); err != nil {
		return nil, err
	}
	observability.ApprovalActions.WithLabelValues(string(in.Action)).Inc()

	s.notifyTransition(ctx, next, resolved, actor)

	return next, nil
}

// notifyTransition routes post-action notifications: the next approver when
// the request advanced, the creator when it resolved or was held.
func (s *RequestService) notifyTransition(ctx context.Context, req *models.Request, resolved []models.User, actor *models.User) {
	switch {
	case req.Status == models.StatusApproved:
		s.notify(ctx, req.CreatedBy, notifications.Event{
			Type:      notifications.EventRequestApproved,
			RequestID: req.ID,
			Supplier:  req.SupplierName,
			Message:   "Your request was fully approved",
		})
	case req.Status == models.StatusDeclined:
		s.notify(ctx, req.CreatedBy, notifications.Event{
			Type:      notifications.EventRequestDeclined,
			RequestID: req.ID,
			Supplier:  req.SupplierName,
			Message:   fmt.Sprintf("Your request was declined by %s", actor.Name),
		})
	case req.OnHold():
		s.notify(ctx, req.CreatedBy, notifications.Event{
			Type:      notifications.EventRequestHeld,
			RequestID: req.ID,
			Supplier:  req.SupplierName,
			Message:   fmt.Sprintf("Your request was kept in view by %s", actor.Name),
		})
	default:
		if nextApprover := workflow.NextApprover(req, resolved); nextApprover != nil {
			s.notify(ctx, nextApprover.ID, notifications.Event{
				Type:      notifications.EventApprovalNeeded,
				RequestID: req.ID,
				Supplier:  req.SupplierName,
				Message:   "A request is awaiting your approval",
			})
		}
	}
}

// GetRequest returns the request with its chain and derived audit trail.
func (s *RequestService) GetRequest(ctx context.Context, requestID uint) (*RequestDetail, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.ResolveForDisplay(ctx, req.BranchApproverID)
	if err != nil {
		return nil, models.NewChainResolutionError(err)
	}

	return &RequestDetail{
		Request: req,
		Chain:   resolved,
		Trail:   workflow.BuildTrail(req, resolved),
	}, nil
}

// GetAuditTrail returns just the derived audit trail for a request.
func (s *RequestService) GetAuditTrail(ctx context.Context, requestID uint) ([]workflow.AuditEntry, error) {
	detail, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return detail.Trail, nil
}

// ListRequests returns requests visible to the actor, newest first.
// Initiators see only their own submissions; approver roles see everything;
// finance defaults to the approved queue unless a status filter is given.
func (s *RequestService) ListRequests(ctx context.Context, in ListRequestsInput) ([]models.Request, error) {
	filter := repository.RequestFilter{
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.ActorRole == models.RoleInitiator || in.ActorRole == "" {
		filter.CreatedBy = in.ActorID
	}
	if in.ActorRole == models.RoleFinance && filter.Status == "" {
		filter.Status = models.StatusApproved
	}
	return s.requestRepo.List(ctx, filter)
}

// UpdateRequest replaces the editable fields of a request. Only the creator
// may edit, and only while the request is pending at level 0.
func (s *RequestService) UpdateRequest(ctx context.Context, in UpdateRequestInput) (*models.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CanEdit(req, in.ActorID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Supplier) == "" {
		return nil, models.NewValidationError("Supplier name is required")
	}
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Amount must be greater than zero")
	}
	if err := validateAttachments(in.Attachments); err != nil {
		return nil, err
	}

	req.SupplierName = in.Supplier
	req.Amount = in.Amount
	req.Description = in.Description
	req.AccountName = in.AccountName
	if in.Attachments != nil {
		req.Attachments = in.Attachments
	}

	if err := s.requestRepo.UpdateEditable(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// DeleteRequest removes a request. Same lifecycle guard as editing.
func (s *RequestService) DeleteRequest(ctx context.Context, actorID, requestID uint) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := workflow.CanDelete(req, actorID); err != nil {
		return err
	}
	return s.requestRepo.Delete(ctx, requestID)
}

// PreviewChain resolves the chain a new request by this user would traverse.
func (s *RequestService) PreviewChain(ctx context.Context, userID uint) ([]models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.ResolveForCreate(ctx, user.Domain())
	if err != nil {
		return nil, models.NewChainResolutionError(err)
	}
	return resolved, nil
}

// notify delivers an event best-effort; failures are logged, never returned.
func (s *RequestService) notify(ctx context.Context, userID uint, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishEvent(ctx, userID, event); err != nil {
		observability.GlobalLogger.Warn("notification delivery failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("event", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
