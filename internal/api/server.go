package api

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/chainwork-labs/escrowpad/internal/api/middleware"
	"github.com/chainwork-labs/escrowpad/internal/dashboard"
	"github.com/chainwork-labs/escrowpad/internal/services"
)

type Server struct {
	app        *fiber.App
	controller *dashboard.Controller
	history    services.HistoryService
	notifier   services.NotificationService
	auth       *authState
}

func NewServer(controller *dashboard.Controller, history services.HistoryService, notifier services.NotificationService, jwtSecret string) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	server := &Server{
		app:        app,
		controller: controller,
		history:    history,
		notifier:   notifier,
		auth:       newAuthState(jwtSecret),
	}
	server.setupRoutes(jwtSecret)
	return server
}

func (s *Server) setupRoutes(jwtSecret string) {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	// Wallet session bootstrap: prove key ownership, get a Bearer token.
	s.app.Post("/api/auth/challenge", s.handleAuthChallenge)
	s.app.Post("/api/auth/verify", s.handleAuthVerify)

	authed := s.app.Group("/api", middleware.RequireWallet(jwtSecret))

	authed.Get("/projects", s.handleListProjects)
	authed.Post("/projects", s.handleCreateProject)
	authed.Get("/projects/:id", s.handleGetProject)
	authed.Patch("/projects/:id", s.handleUpdateProject)

	authed.Post("/projects/:id/milestones/:milestoneId/fund", s.handleFundMilestone)
	authed.Post("/projects/:id/milestones/:milestoneId/claim", s.handleClaimMilestone)
	authed.Post("/projects/:id/milestones/:milestoneId/refund", s.handleRefundMilestone)
	authed.Patch("/projects/:id/milestones/:milestoneId/escrow", s.handleUpdateEscrow)

	authed.Get("/stats", s.handleStats)
	authed.Get("/history", s.handleHistory)
	authed.Get("/notifications", s.handleListNotifications)
	authed.Post("/notifications/:id/read", s.handleMarkNotificationRead)

	// Explicit recovery from unreadable persisted state.
	authed.Post("/store/reset", s.handleResetStore)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start serves on the given port without blocking.
func (s *Server) Start(port int) error {
	go func() {
		if err := s.app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Error starting API server: %v\n", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
