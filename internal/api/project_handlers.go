package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chainwork-labs/escrowpad/internal/api/middleware"
	"github.com/chainwork-labs/escrowpad/internal/dashboard"
	"github.com/chainwork-labs/escrowpad/internal/models"
)

func (s *Server) handleCreateProject(c *fiber.Ctx) error {
	var req dashboard.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeValidation, err, "malformed request body"))
	}

	project, err := s.controller.CreateProject(middleware.CallerWallet(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func (s *Server) handleListProjects(c *fiber.Ctx) error {
	projects, err := s.controller.ListProjects(c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return c.JSON(projects)
}

func (s *Server) handleGetProject(c *fiber.Ctx) error {
	project, err := s.controller.GetProject(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(project)
}

func (s *Server) handleUpdateProject(c *fiber.Ctx) error {
	var req dashboard.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeValidation, err, "malformed request body"))
	}

	project, err := s.controller.UpdateProjectMeta(middleware.CallerWallet(c), c.Params("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(project)
}

func (s *Server) handleResetStore(c *fiber.Ctx) error {
	if err := s.controller.ResetStore(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "reset"})
}
