package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chainwork-labs/escrowpad/internal/api/middleware"
	"github.com/chainwork-labs/escrowpad/internal/escrow"
	"github.com/chainwork-labs/escrowpad/internal/models"
)

func (s *Server) handleFundMilestone(c *fiber.Ctx) error {
	project, err := s.controller.FundMilestone(c.Context(),
		middleware.CallerWallet(c), c.Params("id"), c.Params("milestoneId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(project)
}

func (s *Server) handleClaimMilestone(c *fiber.Ctx) error {
	project, err := s.controller.ClaimMilestone(c.Context(),
		middleware.CallerWallet(c), c.Params("id"), c.Params("milestoneId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(project)
}

func (s *Server) handleRefundMilestone(c *fiber.Ctx) error {
	project, err := s.controller.RefundMilestone(c.Context(),
		middleware.CallerWallet(c), c.Params("id"), c.Params("milestoneId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(project)
}

func (s *Server) handleUpdateEscrow(c *fiber.Ctx) error {
	var terms escrow.UpdateTerms
	if err := c.BodyParser(&terms); err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeValidation, err, "malformed request body"))
	}

	err := s.controller.UpdateEscrowTerms(c.Context(),
		middleware.CallerWallet(c), c.Params("id"), c.Params("milestoneId"), terms)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "updated"})
}
