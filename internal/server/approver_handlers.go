package server

import (
	"github.com/Thintalltom/Paperless-Audit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetApprovalChain handles GET /api/approvers/chain. It previews the chain a
// new request by the caller would traverse.
func (s *Server) GetApprovalChain(c *fiber.Ctx) error {
	resolved, err := s.requestService.PreviewChain(c.UserContext(), actorID(c))
	if err != nil {
		return models.RespondAppError(c, err)
	}

	type slot struct {
		Level int         `json:"level"`
		ID    uint        `json:"id"`
		Name  string      `json:"name"`
		Email string      `json:"email"`
		Role  models.Role `json:"role"`
	}
	chain := make([]slot, 0, len(resolved))
	for i, u := range resolved {
		chain = append(chain, slot{Level: i, ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}

	return c.JSON(fiber.Map{"chain": chain})
}
