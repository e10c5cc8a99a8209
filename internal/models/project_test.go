package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeAmounts(t *testing.T) {
	t.Run("MixedStatuses", func(t *testing.T) {
		project := Project{
			Milestones: []Milestone{
				{ID: "m1", Amount: 2.5, Status: MilestoneStatusCompleted},
				{ID: "m2", Amount: 1.5, Status: MilestoneStatusFunded},
				{ID: "m3", Amount: 3.0, Status: MilestoneStatusUpcoming},
				{ID: "m4", Amount: 0.5, Status: MilestoneStatusCancelled},
			},
		}
		project.RecomputeAmounts()

		assert.Equal(t, 7.5, project.TotalAmount)
		assert.Equal(t, 2.5, project.CompletedAmount)
		assert.Equal(t, 1.5, project.FundedAmount)
	})

	t.Run("OverwritesStaleAggregates", func(t *testing.T) {
		project := Project{
			TotalAmount:     99,
			CompletedAmount: 99,
			FundedAmount:    99,
			Milestones: []Milestone{
				{ID: "m1", Amount: 1.0, Status: MilestoneStatusUpcoming},
			},
		}
		project.RecomputeAmounts()

		assert.Equal(t, 1.0, project.TotalAmount)
		assert.Equal(t, 0.0, project.CompletedAmount)
		assert.Equal(t, 0.0, project.FundedAmount)
	})

	t.Run("NoMilestones", func(t *testing.T) {
		project := Project{TotalAmount: 5}
		project.RecomputeAmounts()

		assert.Equal(t, 0.0, project.TotalAmount)
	})
}

func TestMilestoneByID(t *testing.T) {
	project := Project{
		Milestones: []Milestone{
			{ID: "m1"},
			{ID: "m2"},
		},
	}

	t.Run("Found", func(t *testing.T) {
		milestone, index, ok := project.MilestoneByID("m2")
		assert.True(t, ok)
		assert.Equal(t, 1, index)
		assert.Equal(t, "m2", milestone.ID)
	})

	t.Run("ReturnsPointerIntoProject", func(t *testing.T) {
		milestone, _, ok := project.MilestoneByID("m1")
		assert.True(t, ok)

		milestone.Status = MilestoneStatusFunded
		assert.Equal(t, MilestoneStatusFunded, project.Milestones[0].Status)
	})

	t.Run("Missing", func(t *testing.T) {
		_, _, ok := project.MilestoneByID("nope")
		assert.False(t, ok)
	})
}

func TestComputeStats(t *testing.T) {
	projects := []Project{
		{Status: ProjectStatusActive, TotalAmount: 4.0, CompletedAmount: 2.5},
		{Status: ProjectStatusCompleted, TotalAmount: 3.0, CompletedAmount: 3.0},
		{Status: ProjectStatusOnHold, TotalAmount: 1.0},
	}

	stats := ComputeStats(projects)

	assert.Equal(t, 3, stats.TotalProjects)
	assert.Equal(t, 1, stats.ActiveProjects)
	assert.Equal(t, 1, stats.CompletedProjects)
	assert.Equal(t, 8.0, stats.TotalValue)
	assert.Equal(t, 5.5, stats.CompletedValue)
	assert.Equal(t, 2.5, stats.PendingValue)
}

func TestTouch(t *testing.T) {
	project := Project{}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	project.Touch(now)

	assert.Equal(t, now, project.UpdatedAt)
}
