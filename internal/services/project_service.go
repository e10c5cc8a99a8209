package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/chainwork-labs/escrowpad/internal/models"
	"github.com/chainwork-labs/escrowpad/internal/storage"
)

// ProjectService is the durable, queryable project collection. It owns every
// project exclusively: callers get copies and mutate through Add/Update only,
// so the aggregate invariants cannot be bypassed by direct field writes.
type ProjectService interface {
	// Load restores the collection from the slot. An absent slot yields an
	// empty collection; an unreadable or invariant-breaking one fails with
	// corrupt_state and the service refuses normal operation until Reset.
	Load() ([]models.Project, error)
	// Save persists the full collection, replacing the slot contents.
	Save(projects []models.Project) error
	Add(project models.Project) error
	Update(projectID string, project models.Project) error
	Get(projectID string) (*models.Project, error)
	List() ([]models.Project, error)
	// Search matches term case-insensitively against title and freelancer
	// address, returning results in insertion order.
	Search(term string) ([]models.Project, error)
	// Reset discards the slot contents. The only sanctioned way out of
	// corrupt_state.
	Reset() error
}

type projectService struct {
	slot storage.Slot

	mu       sync.Mutex
	projects []models.Project
	loaded   bool
	corrupt  bool
}

// NewProjectService creates a ProjectService over the given slot.
func NewProjectService(slot storage.Slot) ProjectService {
	return &projectService{slot: slot}
}

func (s *projectService) Load() ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// ensureLoaded reads the slot once; callers must hold the lock.
func (s *projectService) ensureLoaded() error {
	if s.corrupt {
		return models.NewAppError(models.ErrCodeCorruptState,
			"stored project data is unreadable; reset required")
	}
	if s.loaded {
		return nil
	}

	data, err := s.slot.Read()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	if len(data) == 0 {
		s.projects = []models.Project{}
		s.loaded = true
		return nil
	}

	var projects []models.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		// Do not discard or silently skip the stored data. The caller
		// decides between Reset and manual recovery.
		s.corrupt = true
		return models.WrapAppError(models.ErrCodeCorruptState, err,
			"stored project data is unreadable")
	}
	if err := validateProjects(projects); err != nil {
		s.corrupt = true
		return err
	}

	s.projects = projects
	s.loaded = true
	return nil
}

// validateProjects rejects persisted data that parses but breaks the
// milestone invariants: an escrow account reference exists exactly when the
// milestone has left Upcoming. Serving such data would let a transition
// dereference an account that was never recorded.
func validateProjects(projects []models.Project) error {
	for _, p := range projects {
		for _, m := range p.Milestones {
			upcoming := m.Status == models.MilestoneStatusUpcoming
			if upcoming && m.EscrowAccount != nil {
				return models.NewAppError(models.ErrCodeCorruptState,
					"stored milestone %s is %s but references escrow account %s",
					m.ID, m.Status, *m.EscrowAccount)
			}
			if !upcoming && m.EscrowAccount == nil {
				return models.NewAppError(models.ErrCodeCorruptState,
					"stored milestone %s is %s without an escrow account", m.ID, m.Status)
			}
		}
	}
	return nil
}

func (s *projectService) Save(projects []models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.corrupt {
		return models.NewAppError(models.ErrCodeCorruptState,
			"refusing to overwrite unreadable project data; reset required")
	}

	s.projects = make([]models.Project, len(projects))
	copy(s.projects, projects)
	s.loaded = true
	return s.persist()
}

// persist writes the in-memory collection to the slot; callers hold the lock.
func (s *projectService) persist() error {
	data, err := json.Marshal(s.projects)
	if err != nil {
		return fmt.Errorf("failed to serialize projects: %w", err)
	}
	return s.slot.Write(data)
}

func (s *projectService) Add(project models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}
	for _, p := range s.projects {
		if p.ID == project.ID {
			return models.NewAppError(models.ErrCodeDuplicateID,
				"project %s already exists", project.ID)
		}
	}

	s.projects = append(s.projects, project)
	return s.persist()
}

func (s *projectService) Update(projectID string, project models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}
	for i, p := range s.projects {
		if p.ID == projectID {
			project.ID = projectID
			s.projects[i] = project
			return s.persist()
		}
	}
	return models.NewAppError(models.ErrCodeNotFound, "project %s not found", projectID)
}

func (s *projectService) Get(projectID string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			p := s.projects[i]
			return &p, nil
		}
	}
	return nil, models.NewAppError(models.ErrCodeNotFound, "project %s not found", projectID)
}

func (s *projectService) List() ([]models.Project, error) {
	return s.Load()
}

func (s *projectService) Search(term string) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	if term == "" {
		return s.snapshot(), nil
	}

	needle := strings.ToLower(term)
	var matches []models.Project
	for _, p := range s.projects {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.FreelancerAddress), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *projectService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = []models.Project{}
	s.loaded = true
	s.corrupt = false
	return s.persist()
}

// snapshot copies the collection; callers hold the lock.
func (s *projectService) snapshot() []models.Project {
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}
