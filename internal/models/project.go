package models

import "time"

type MilestoneStatus string

type ProjectStatus string

const (
	MilestoneStatusUpcoming  MilestoneStatus = "Upcoming"
	MilestoneStatusFunded    MilestoneStatus = "Funded"
	MilestoneStatusCompleted MilestoneStatus = "Completed"
	MilestoneStatusCancelled MilestoneStatus = "Cancelled"
	// MilestoneStatusExpired is reserved. No transition produces it; the
	// escrow program defines expiry but the dashboard has no trigger for it.
	MilestoneStatusExpired MilestoneStatus = "Expired"
)

const (
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusCancelled ProjectStatus = "Cancelled"
	ProjectStatusOnHold    ProjectStatus = "OnHold"
)

// MaxMilestoneAmount is the creation-time ceiling for a single milestone,
// denominated in display units (SOL).
const MaxMilestoneAmount = 1000.0

// Milestone is owned by its parent project. Its position in
// Project.Milestones is the seed used to derive the escrow account address,
// so milestones are never reordered or deleted once created.
type Milestone struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Amount        float64         `json:"amount"`
	Status        MilestoneStatus `json:"status"`
	EscrowAccount *string         `json:"escrowAccount"`
	FundedAt      *time.Time      `json:"fundedAt,omitempty"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
}

type Project struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description,omitempty"`
	ClientAddress     string        `json:"clientAddress"`
	FreelancerAddress string        `json:"freelancerAddress"`
	Milestones        []Milestone   `json:"milestones"`
	Status            ProjectStatus `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	TotalAmount       float64       `json:"totalAmount"`
	CompletedAmount   float64       `json:"completedAmount"`
	FundedAmount      float64       `json:"fundedAmount"`
	Category          string        `json:"category,omitempty"`
	Tags              []string      `json:"tags,omitempty"`
	Priority          string        `json:"priority,omitempty"`
}

// RecomputeAmounts rebuilds the three derived aggregates from the milestone
// list. Always a full scan, never an incremental adjustment, so the
// aggregates cannot drift from the milestones they summarize.
func (p *Project) RecomputeAmounts() {
	var total, completed, funded float64
	for _, m := range p.Milestones {
		total += m.Amount
		switch m.Status {
		case MilestoneStatusCompleted:
			completed += m.Amount
		case MilestoneStatusFunded:
			funded += m.Amount
		}
	}
	p.TotalAmount = total
	p.CompletedAmount = completed
	p.FundedAmount = funded
}

// MilestoneByID returns the milestone and its index within the project.
func (p *Project) MilestoneByID(id string) (*Milestone, int, bool) {
	for i := range p.Milestones {
		if p.Milestones[i].ID == id {
			return &p.Milestones[i], i, true
		}
	}
	return nil, 0, false
}

// Touch bumps the modification timestamp.
func (p *Project) Touch(now time.Time) {
	p.UpdatedAt = now
}

// ProjectStats summarizes the whole collection for the dashboard header.
type ProjectStats struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalValue        float64 `json:"totalValue"`
	CompletedValue    float64 `json:"completedValue"`
	PendingValue      float64 `json:"pendingValue"`
}

// ComputeStats aggregates stats over a project collection.
func ComputeStats(projects []Project) ProjectStats {
	var stats ProjectStats
	stats.TotalProjects = len(projects)
	for _, p := range projects {
		switch p.Status {
		case ProjectStatusActive:
			stats.ActiveProjects++
		case ProjectStatusCompleted:
			stats.CompletedProjects++
		}
		stats.TotalValue += p.TotalAmount
		stats.CompletedValue += p.CompletedAmount
		stats.PendingValue += p.TotalAmount - p.CompletedAmount
	}
	return stats
}
