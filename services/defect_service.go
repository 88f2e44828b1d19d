package services

import (
	"sync"
	"time"

	"qa-workflow-simulator/logger"
	"qa-workflow-simulator/metrics"
	"qa-workflow-simulator/models"
	"qa-workflow-simulator/repositories"
)

// Synthetic action names supplied by the HTTP layer for conditions outside
// the plain state machine.
const (
	SyntheticActionView          = "view"
	SyntheticActionCreate        = "create"
	SyntheticActionSaveUnchanged = "save-unchanged"
)

const DefectResponsiveLayout = "responsive-layout-defect"

type defectRule struct {
	ID           string
	Summary      string
	Reproduction string
	Matches      func(ctx models.ActionContext) bool
}

// defectCatalog is evaluated in order, most specific predicates first, so a
// broad rule cannot mask a narrower one. The last entry has no predicate: it
// is only ever reported by the UI through RegisterDefect.
var defectCatalog = []defectRule{
	{
		ID:           "short-title-defect",
		Summary:      "Title shorter than 5 characters is accepted",
		Reproduction: "Create or edit an article with a title of fewer than 5 characters; the form submits without a validation error",
		Matches: func(ctx models.ActionContext) bool {
			if ctx.Action != SyntheticActionCreate && ctx.Action != string(models.ActionEdit) {
				return false
			}
			return len(ctx.Title) > 0 && len(ctx.Title) < 5
		},
	},
	{
		ID:           "save-without-changes",
		Summary:      "Edit form commits a save with no field changes",
		Reproduction: "Open an article for editing and save it without changing anything; the save is applied as if it were a real edit",
		Matches: func(ctx models.ActionContext) bool {
			return ctx.Action == SyntheticActionSaveUnchanged
		},
	},
	{
		ID:           "archived-visible-to-others",
		Summary:      "Archived article is visible outside the author role",
		Reproduction: "Archive an article, switch to moderator or guest, and open it; archived content should not leak into other roles",
		Matches: func(ctx models.ActionContext) bool {
			return ctx.Action == SyntheticActionView &&
				ctx.FromState == models.StateArchived &&
				ctx.Role != models.RoleAuthor
		},
	},
	{
		ID:           "delete-unpublished-by-author",
		Summary:      "Author can hard-delete content a moderator unpublished",
		Reproduction: "As moderator, unpublish a published article; as author, delete it, bypassing the moderator-owned lifecycle",
		Matches: func(ctx models.ActionContext) bool {
			return ctx.FromState == models.StateUnpublished && ctx.Action == string(models.ActionDelete)
		},
	},
	{
		ID:           "publish-from-rejected",
		Summary:      "Rejected article can be published without re-review",
		Reproduction: "Trigger publish on an article in the rejected state; it must go back through review first",
		Matches: func(ctx models.ActionContext) bool {
			return ctx.FromState == models.StateRejected && ctx.Action == string(models.ActionPublish)
		},
	},
	{
		ID:           "edit-while-published",
		Summary:      "Published article can be edited in place",
		Reproduction: "Edit an article in the published state; the intended behavior demotes it to draft, not a silent in-place edit",
		Matches: func(ctx models.ActionContext) bool {
			return ctx.FromState == models.StatePublished && ctx.Action == string(models.ActionEdit)
		},
	},
	{
		ID:           "archived-not-terminal",
		Summary:      "Archived article can leave the archive",
		Reproduction: "Trigger edit, publish, submit_for_review, or republish on an archived article; the archive must be a dead end",
		Matches: func(ctx models.ActionContext) bool {
			if ctx.FromState != models.StateArchived {
				return false
			}
			switch ctx.Action {
			case string(models.ActionEdit), string(models.ActionPublish),
				string(models.ActionSubmitForReview), string(models.ActionRepublish):
				return true
			}
			return false
		},
	},
	{
		ID:           DefectResponsiveLayout,
		Summary:      "Action buttons are clipped on narrow viewports",
		Reproduction: "Resize the viewport below 480px; action buttons on the article card are cut off",
		Matches:      nil,
	},
}

type DefectService interface {
	CheckAction(ctx models.ActionContext) bool
	RegisterDefect(id, summary, reproduction string) bool
	Found() []models.Defect
	Count() int
	Reset()
}

type defectService struct {
	mu          sync.Mutex
	found       []models.Defect
	sessionRepo repositories.SessionRepository
}

// NewDefectService restores discovery progress from the session repository;
// a failed load starts the trainee from zero.
func NewDefectService(sessionRepo repositories.SessionRepository) DefectService {
	found, err := sessionRepo.LoadDefects()
	if err != nil {
		logger.Warn("failed to load defect progress, starting empty", "error", err.Error())
		found = nil
	}
	return &defectService{
		found:       found,
		sessionRepo: sessionRepo,
	}
}

// CheckAction evaluates the catalog against a pre-mutation tuple and records
// the first matching rule the trainee has not discovered yet. It only
// observes; it never authorizes the action it is inspecting.
func (s *defectService) CheckAction(ctx models.ActionContext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rule := range defectCatalog {
		if rule.Matches == nil || !rule.Matches(ctx) {
			continue
		}
		if s.discovered(rule.ID) {
			continue
		}
		s.record(rule.ID, rule.Summary, rule.Reproduction)
		return true
	}
	return false
}

// RegisterDefect is the idempotent primitive behind CheckAction, exposed for
// collaborators that detect conditions themselves (for example the
// responsive-layout check in the UI). Returns true only on first discovery.
func (s *defectService) RegisterDefect(id, summary, reproduction string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discovered(id) {
		return false
	}
	s.record(id, summary, reproduction)
	return true
}

func (s *defectService) Found() []models.Defect {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Defect, len(s.found))
	copy(out, s.found)
	return out
}

func (s *defectService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.found)
}

func (s *defectService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.found = nil
	s.persist()
	logger.Info("defect progress reset")
}

// discovered reports whether id is already in the found set.
// Callers hold the mutex.
func (s *defectService) discovered(id string) bool {
	for _, defect := range s.found {
		if defect.ID == id {
			return true
		}
	}
	return false
}

// record appends a new discovery and persists. Callers hold the mutex and
// have already checked for duplicates.
func (s *defectService) record(id, summary, reproduction string) {
	s.found = append(s.found, models.Defect{
		ID:           id,
		Summary:      summary,
		Reproduction: reproduction,
		FoundAt:      time.Now(),
	})
	s.persist()

	metrics.DefectsFoundTotal.WithLabelValues(id).Inc()
	logger.Info("defect discovered", "defect_id", id, "total_found", len(s.found))
}

func (s *defectService) persist() {
	snapshot := make([]models.Defect, len(s.found))
	copy(snapshot, s.found)
	if err := s.sessionRepo.SaveDefects(snapshot); err != nil {
		logger.Error("failed to persist defect progress", "error", err.Error())
	}
}
