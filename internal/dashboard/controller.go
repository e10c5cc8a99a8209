// Package dashboard glues the project store, the milestone state machine,
// and the escrow client together. All project mutation funnels through the
// controller so the derived aggregates always match the milestone list, and
// no escrow call is issued that the state machine or role gate would reject.
package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/chainwork-labs/escrowpad/internal/escrow"
	"github.com/chainwork-labs/escrowpad/internal/lifecycle"
	"github.com/chainwork-labs/escrowpad/internal/models"
	"github.com/chainwork-labs/escrowpad/internal/services"
)

type Controller struct {
	projects services.ProjectService
	escrow   escrow.Client
	history  services.HistoryService
	notifier services.NotificationService
	validate *validator.Validate
	now      func() time.Time

	// pending holds milestone ids with an escrow call in flight. The state
	// machine gates invalid states; this gates concurrent calls from the
	// same valid state.
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewController(projects services.ProjectService, escrowClient escrow.Client, history services.HistoryService, notifier services.NotificationService) *Controller {
	return &Controller{
		projects: projects,
		escrow:   escrowClient,
		history:  history,
		notifier: notifier,
		validate: validator.New(),
		now:      time.Now,
		pending:  make(map[string]struct{}),
	}
}

type MilestoneInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount" validate:"required,gt=0,lte=1000"`
	DueDate     *time.Time `json:"dueDate"`
}

type CreateProjectRequest struct {
	Title             string           `json:"title" validate:"required,min=3"`
	Description       string           `json:"description"`
	FreelancerAddress string           `json:"freelancerAddress" validate:"required"`
	Milestones        []MilestoneInput `json:"milestones" validate:"required,min=1,dive"`
	Category          string           `json:"category"`
	Tags              []string         `json:"tags" validate:"max=5"`
	Priority          string           `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type UpdateProjectRequest struct {
	Title       *string               `json:"title" validate:"omitempty,min=3"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status" validate:"omitempty,oneof=Active Completed Cancelled OnHold"`
}

// CreateProject validates the form, builds a project with every milestone
// Upcoming, and persists it. The caller becomes the client party.
func (c *Controller) CreateProject(caller string, req CreateProjectRequest) (*models.Project, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}
	if err := escrow.ValidateAddress(caller); err != nil {
		return nil, err
	}
	if err := escrow.ValidateAddress(req.FreelancerAddress); err != nil {
		return nil, err
	}

	now := c.now()
	project := models.Project{
		ID:                uuid.New().String(),
		Title:             req.Title,
		Description:       req.Description,
		ClientAddress:     caller,
		FreelancerAddress: req.FreelancerAddress,
		Status:            models.ProjectStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
		Category:          req.Category,
		Tags:              req.Tags,
		Priority:          req.Priority,
	}
	for _, input := range req.Milestones {
		project.Milestones = append(project.Milestones, models.Milestone{
			ID:          uuid.New().String(),
			Title:       input.Title,
			Description: input.Description,
			Amount:      input.Amount,
			Status:      models.MilestoneStatusUpcoming,
			DueDate:     input.DueDate,
		})
	}
	project.RecomputeAmounts()

	if err := c.projects.Add(project); err != nil {
		return nil, err
	}

	c.notify(&models.Notification{
		Type:          models.NotificationProjectCreated,
		Title:         "New project",
		Message:       fmt.Sprintf("You were added as the freelancer on %q", project.Title),
		WalletAddress: project.FreelancerAddress,
		ProjectID:     project.ID,
	})
	return &project, nil
}

// FundMilestone locks the milestone amount into a new escrow account.
// Client-only; Upcoming milestones only.
func (c *Controller) FundMilestone(ctx context.Context, caller, projectID, milestoneID string) (*models.Project, error) {
	return c.runTransition(ctx, caller, projectID, milestoneID, lifecycle.TriggerFund)
}

// ClaimMilestone releases the escrowed amount to the freelancer.
// Freelancer-only; Funded milestones only.
func (c *Controller) ClaimMilestone(ctx context.Context, caller, projectID, milestoneID string) (*models.Project, error) {
	return c.runTransition(ctx, caller, projectID, milestoneID, lifecycle.TriggerClaim)
}

// RefundMilestone cancels a funded escrow and returns the amount to the
// client. Client-only; Funded milestones only.
func (c *Controller) RefundMilestone(ctx context.Context, caller, projectID, milestoneID string) (*models.Project, error) {
	return c.runTransition(ctx, caller, projectID, milestoneID, lifecycle.TriggerRefund)
}

func (c *Controller) runTransition(ctx context.Context, caller, projectID, milestoneID string, trigger lifecycle.Trigger) (*models.Project, error) {
	project, err := c.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	milestone, index, ok := project.MilestoneByID(milestoneID)
	if !ok {
		return nil, models.NewAppError(models.ErrCodeNotFound,
			"milestone %s not found in project %s", milestoneID, projectID)
	}

	// Gate locally before anything leaves the process. A rejection here
	// must not look like an attempted transaction.
	if err := lifecycle.Authorize(trigger, lifecycle.RoleOf(project, caller)); err != nil {
		return nil, err
	}
	if _, err := lifecycle.Next(milestone.Status, trigger); err != nil {
		return nil, err
	}

	if err := c.admit(milestoneID); err != nil {
		return nil, err
	}
	defer c.release(milestoneID)

	var escrowAccount string
	var callErr error
	switch trigger {
	case lifecycle.TriggerFund:
		escrowAccount, callErr = c.escrow.Fund(ctx, project.FreelancerAddress, milestone.Amount, index)
	case lifecycle.TriggerClaim:
		callErr = c.escrow.Claim(ctx, *milestone.EscrowAccount, project.ClientAddress)
	case lifecycle.TriggerRefund:
		callErr = c.escrow.Refund(ctx, *milestone.EscrowAccount)
	}

	if callErr != nil {
		c.record(actionFor(trigger), project, milestone, caller, models.RecordStatusFailed, callErr)
		return nil, callErr
	}

	// The transition is applied only now that the external call resolved;
	// a milestone status never moves optimistically.
	now := c.now()
	if err := lifecycle.Apply(milestone, trigger, escrowAccount, now); err != nil {
		return nil, err
	}
	project.RecomputeAmounts()
	project.Touch(now)

	if err := c.projects.Update(project.ID, *project); err != nil {
		return nil, err
	}

	c.record(actionFor(trigger), project, milestone, caller, models.RecordStatusSuccess, nil)
	c.notifyTransition(trigger, project, milestone)
	return project, nil
}

// UpdateEscrowTerms passes replacement terms through to a funded milestone's
// escrow account. Client-only. No milestone status change.
func (c *Controller) UpdateEscrowTerms(ctx context.Context, caller, projectID, milestoneID string, terms escrow.UpdateTerms) error {
	project, err := c.projects.Get(projectID)
	if err != nil {
		return err
	}
	milestone, _, ok := project.MilestoneByID(milestoneID)
	if !ok {
		return models.NewAppError(models.ErrCodeNotFound,
			"milestone %s not found in project %s", milestoneID, projectID)
	}
	if lifecycle.RoleOf(project, caller) != lifecycle.RoleClient {
		return models.NewAppError(models.ErrCodeStateConflict, "only the client may update escrow terms")
	}
	if milestone.EscrowAccount == nil {
		return models.NewAppError(models.ErrCodeStateConflict,
			"milestone %s has no escrow account to update", milestoneID)
	}

	if err := c.admit(milestoneID); err != nil {
		return err
	}
	defer c.release(milestoneID)

	if err := c.escrow.Update(ctx, *milestone.EscrowAccount, terms); err != nil {
		c.record(models.EscrowActionUpdate, project, milestone, caller, models.RecordStatusFailed, err)
		return err
	}
	c.record(models.EscrowActionUpdate, project, milestone, caller, models.RecordStatusSuccess, nil)
	return nil
}

// UpdateProjectMeta edits the project's own fields, including its explicit
// status, which is independent of milestone statuses. Client-only.
func (c *Controller) UpdateProjectMeta(caller, projectID string, req UpdateProjectRequest) (*models.Project, error) {
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}

	project, err := c.projects.Get(projectID)
	if err != nil {
		return nil, err
	}
	if lifecycle.RoleOf(project, caller) != lifecycle.RoleClient {
		return nil, models.NewAppError(models.ErrCodeStateConflict, "only the client may edit the project")
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	project.Touch(c.now())

	if err := c.projects.Update(project.ID, *project); err != nil {
		return nil, err
	}
	return project, nil
}

func (c *Controller) GetProject(projectID string) (*models.Project, error) {
	return c.projects.Get(projectID)
}

func (c *Controller) ListProjects(searchTerm string) ([]models.Project, error) {
	return c.projects.Search(searchTerm)
}

func (c *Controller) Stats() (models.ProjectStats, error) {
	projects, err := c.projects.List()
	if err != nil {
		return models.ProjectStats{}, err
	}
	return models.ComputeStats(projects), nil
}

// ResetStore discards unreadable persisted state. Exposed for the explicit
// corrupt_state recovery path only.
func (c *Controller) ResetStore() error {
	return c.projects.Reset()
}

func (c *Controller) admit(milestoneID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.pending[milestoneID]; busy {
		return models.NewAppError(models.ErrCodeStateConflict,
			"milestone %s already has an action in flight", milestoneID)
	}
	c.pending[milestoneID] = struct{}{}
	return nil
}

func (c *Controller) release(milestoneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, milestoneID)
}

func (c *Controller) validateStruct(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return models.WrapAppError(models.ErrCodeValidation, err, "invalid request")
	}
	return nil
}

func actionFor(trigger lifecycle.Trigger) models.EscrowAction {
	switch trigger {
	case lifecycle.TriggerFund:
		return models.EscrowActionFund
	case lifecycle.TriggerClaim:
		return models.EscrowActionClaim
	default:
		return models.EscrowActionRefund
	}
}

// record appends to the audit trail. A failed audit write never fails the
// action itself.
func (c *Controller) record(action models.EscrowAction, project *models.Project, milestone *models.Milestone, caller string, status models.RecordStatus, callErr error) {
	rec := &models.TransactionRecord{
		Action:        action,
		Amount:        milestone.Amount,
		ProjectID:     project.ID,
		MilestoneID:   milestone.ID,
		WalletAddress: caller,
		Status:        status,
	}
	if milestone.EscrowAccount != nil {
		rec.Detail = *milestone.EscrowAccount
	}
	if callErr != nil {
		rec.ErrorCode = string(models.CodeOf(callErr))
		rec.Detail = callErr.Error()
	}
	if err := c.history.Record(rec); err != nil {
		log.Printf("failed to record %s history for milestone %s: %v", action, milestone.ID, err)
	}
}

func (c *Controller) notifyTransition(trigger lifecycle.Trigger, project *models.Project, milestone *models.Milestone) {
	var n models.Notification
	switch trigger {
	case lifecycle.TriggerFund:
		n = models.Notification{
			Type:          models.NotificationMilestoneFunded,
			Title:         "Milestone funded",
			Message:       fmt.Sprintf("%.2f SOL escrowed for %q", milestone.Amount, milestone.Title),
			WalletAddress: project.FreelancerAddress,
		}
	case lifecycle.TriggerClaim:
		n = models.Notification{
			Type:          models.NotificationPaymentClaimed,
			Title:         "Payment claimed",
			Message:       fmt.Sprintf("%.2f SOL released for %q", milestone.Amount, milestone.Title),
			WalletAddress: project.ClientAddress,
		}
	case lifecycle.TriggerRefund:
		n = models.Notification{
			Type:          models.NotificationMilestoneRefunded,
			Title:         "Milestone refunded",
			Message:       fmt.Sprintf("%.2f SOL returned for %q", milestone.Amount, milestone.Title),
			WalletAddress: project.FreelancerAddress,
		}
	}
	n.ProjectID = project.ID
	n.MilestoneID = milestone.ID
	c.notify(&n)
}

func (c *Controller) notify(n *models.Notification) {
	if err := c.notifier.Notify(n); err != nil {
		log.Printf("failed to store %s notification: %v", n.Type, err)
	}
}
