// Package lifecycle is the milestone status state machine. It is the gate in
// front of every escrow call: an action rejected here must never reach the
// chain, and a status change is applied only after the chain call resolved.
package lifecycle

import (
	"time"

	"github.com/chainwork-labs/escrowpad/internal/models"
)

type Trigger string

const (
	TriggerFund   Trigger = "fund"
	TriggerClaim  Trigger = "claim"
	TriggerRefund Trigger = "refund"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleObserver   Role = "observer"
)

// transitions is the full table. Completed and Cancelled are terminal;
// Expired is reserved and unreachable.
var transitions = map[models.MilestoneStatus]map[Trigger]models.MilestoneStatus{
	models.MilestoneStatusUpcoming: {
		TriggerFund: models.MilestoneStatusFunded,
	},
	models.MilestoneStatusFunded: {
		TriggerClaim:  models.MilestoneStatusCompleted,
		TriggerRefund: models.MilestoneStatusCancelled,
	},
}

// roles maps each trigger to the only role allowed to invoke it.
var roles = map[Trigger]Role{
	TriggerFund:   RoleClient,
	TriggerClaim:  RoleFreelancer,
	TriggerRefund: RoleClient,
}

// Next returns the status a milestone moves to when trigger succeeds.
// Any pair not in the table is a local state conflict.
func Next(current models.MilestoneStatus, trigger Trigger) (models.MilestoneStatus, error) {
	if next, ok := transitions[current][trigger]; ok {
		return next, nil
	}
	return "", models.NewAppError(models.ErrCodeStateConflict,
		"cannot %s a milestone in status %s", trigger, current)
}

// RoleOf resolves the caller's role within a project by address comparison.
func RoleOf(p *models.Project, caller string) Role {
	switch caller {
	case p.ClientAddress:
		return RoleClient
	case p.FreelancerAddress:
		return RoleFreelancer
	default:
		return RoleObserver
	}
}

// Authorize rejects a trigger invoked by the wrong party.
func Authorize(trigger Trigger, role Role) error {
	if roles[trigger] != role {
		return models.NewAppError(models.ErrCodeStateConflict,
			"only the %s may %s a milestone", roles[trigger], trigger)
	}
	return nil
}

// Apply folds a successful trigger into the milestone: status, escrow account
// reference, and the set-exactly-once timestamps. escrowAccount is required
// for fund and ignored otherwise.
func Apply(m *models.Milestone, trigger Trigger, escrowAccount string, now time.Time) error {
	next, err := Next(m.Status, trigger)
	if err != nil {
		return err
	}

	m.Status = next
	switch trigger {
	case TriggerFund:
		account := escrowAccount
		m.EscrowAccount = &account
		t := now
		m.FundedAt = &t
	case TriggerClaim:
		t := now
		m.CompletedAt = &t
	}
	return nil
}
