package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/chainwork-labs/escrowpad/internal/api/middleware"
	"github.com/chainwork-labs/escrowpad/internal/lifecycle"
	"github.com/chainwork-labs/escrowpad/internal/models"
)

func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.controller.Stats()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// handleHistory lists the caller's transaction records, or a project's when
// ?project= is given. A project's trail is visible to its parties only;
// outsiders get the same not_found as for an absent project.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	caller := middleware.CallerWallet(c)

	var (
		records []models.TransactionRecord
		err     error
	)
	if projectID := c.Query("project"); projectID != "" {
		project, getErr := s.controller.GetProject(projectID)
		if getErr != nil {
			return writeError(c, getErr)
		}
		if lifecycle.RoleOf(project, caller) == lifecycle.RoleObserver {
			return writeError(c, models.NewAppError(models.ErrCodeNotFound,
				"project %s not found", projectID))
		}
		records, err = s.history.ListByProject(projectID)
	} else {
		records, err = s.history.ListByWallet(caller)
	}
	if err != nil {
		return writeError(c, err)
	}
	if records == nil {
		records = []models.TransactionRecord{}
	}
	return c.JSON(records)
}

func (s *Server) handleListNotifications(c *fiber.Ctx) error {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := s.notifier.ListByWallet(middleware.CallerWallet(c), unreadOnly)
	if err != nil {
		return writeError(c, err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return c.JSON(notifications)
}

func (s *Server) handleMarkNotificationRead(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return writeError(c, models.WrapAppError(models.ErrCodeValidation, err, "invalid notification id"))
	}
	if err := s.notifier.MarkRead(uint(id)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"status": "read"})
}
