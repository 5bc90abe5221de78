package server

import (
	"github.com/Thintalltom/Paperless-Audit/internal/models"
	"github.com/Thintalltom/Paperless-Audit/internal/service"

	"github.com/gofiber/fiber/v2"
)

type requestPayload struct {
	Supplier    string              `json:"supplier_name"`
	Amount      float64             `json:"amount"`
	Description string              `json:"description"`
	AccountName string              `json:"account_name"`
	Attachments []models.Attachment `json:"attachments"`
}

// CreateRequest handles POST /api/requests
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	var req requestPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.requestService.CreateRequest(c.UserContext(), service.CreateRequestInput{
		UserID:      actorID(c),
		Supplier:    req.Supplier,
		Amount:      req.Amount,
		Description: req.Description,
		AccountName: req.AccountName,
		Attachments: req.Attachments,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetRequests handles GET /api/requests with an optional ?status= filter.
func (s *Server) GetRequests(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)

	status := models.RequestStatus(c.Query("status"))
	switch status {
	case "", models.StatusPending, models.StatusApproved, models.StatusDeclined:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid status filter"))
	}

	requests, err := s.requestService.ListRequests(c.UserContext(), service.ListRequestsInput{
		ActorID:   actorID(c),
		ActorRole: actorRole(c),
		Status:    status,
		Limit:     pagination.Limit,
		Offset:    pagination.Offset,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetRequest handles GET /api/requests/:id
func (s *Server) GetRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.requestService.GetRequest(c.UserContext(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(detail)
}

// GetAuditTrail handles GET /api/requests/:id/audit
func (s *Server) GetAuditTrail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	trail, err := s.requestService.GetAuditTrail(c.UserContext(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(fiber.Map{"audit_trail": trail})
}

// ActOnRequest handles POST /api/requests/:id/action
func (s *Server) ActOnRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var body struct {
		Action   models.Action `json:"action"`
		Comments string        `json:"comments"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.requestService.Act(c.UserContext(), service.ActInput{
		ActorID:   actorID(c),
		RequestID: id,
		Action:    body.Action,
		Comments:  body.Comments,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(updated)
}

// UpdateRequest handles PUT /api/requests/:id
func (s *Server) UpdateRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req requestPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.requestService.UpdateRequest(c.UserContext(), service.UpdateRequestInput{
		ActorID:     actorID(c),
		RequestID:   id,
		Supplier:    req.Supplier,
		Amount:      req.Amount,
		Description: req.Description,
		AccountName: req.AccountName,
		Attachments: req.Attachments,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(updated)
}

// DeleteRequest handles DELETE /api/requests/:id
func (s *Server) DeleteRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.requestService.DeleteRequest(c.UserContext(), actorID(c), id); err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Request deleted"})
}
