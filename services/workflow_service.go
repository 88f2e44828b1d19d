package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"qa-workflow-simulator/logger"
	"qa-workflow-simulator/metrics"
	"qa-workflow-simulator/models"
	"qa-workflow-simulator/repositories"
)

// MaxArticles caps the working set; creation beyond it is rejected.
const MaxArticles = 10

var ErrArticleLimitReached = errors.New("article limit reached")

// roleTransitions is the canonical rule table: per role, the actions
// permitted in each state. A (role, state) pair missing here permits
// nothing. The detector catalog in defect_service.go describes deviations
// from this table; the engine itself never consults the detector.
var roleTransitions = map[models.Role]map[models.ArticleState][]models.ActionType{
	models.RoleAuthor: {
		models.StateDraft:       {models.ActionEdit, models.ActionDelete, models.ActionSubmitForReview},
		models.StateRejected:    {models.ActionEdit, models.ActionDelete},
		models.StatePublished:   {models.ActionEdit, models.ActionArchive},
		models.StateUnpublished: {models.ActionEdit, models.ActionArchive},
	},
	models.RoleModerator: {
		models.StateInReview:  {models.ActionApprove, models.ActionReject},
		models.StatePublished: {models.ActionUnpublish},
	},
	models.RoleGuest: {},
}

// actionResults maps each action to the state it produces. Editing always
// lands on draft: every state it is legal from either is draft already or
// demotes to draft for re-review.
var actionResults = map[models.ActionType]models.ArticleState{
	models.ActionEdit:            models.StateDraft,
	models.ActionSubmitForReview: models.StateInReview,
	models.ActionApprove:         models.StatePublished,
	models.ActionReject:          models.StateRejected,
	models.ActionPublish:         models.StatePublished,
	models.ActionUnpublish:       models.StateUnpublished,
	models.ActionRepublish:       models.StatePublished,
	models.ActionArchive:         models.StateArchived,
}

// roleVisibility lists the states each role may see. Moderators never see
// drafts; guests only see published content.
var roleVisibility = map[models.Role][]models.ArticleState{
	models.RoleAuthor: {
		models.StateDraft, models.StateInReview, models.StateRejected,
		models.StatePublished, models.StateUnpublished, models.StateArchived,
	},
	models.RoleModerator: {
		models.StateInReview, models.StateRejected,
		models.StatePublished, models.StateUnpublished,
	},
	models.RoleGuest: {
		models.StatePublished,
	},
}

type WorkflowService interface {
	Create(title, body string, category models.ArticleCategory) (*models.Article, error)
	Update(id string, req models.UpdateArticleRequest) bool
	PerformAction(id string, action models.ActionType, role models.Role) (bool, string)
	Get(id string) (*models.Article, bool)
	Visible(role models.Role) []models.Article
	All() []models.Article
	ClearAll()
	CanCreateMore() bool
}

type workflowService struct {
	mu          sync.Mutex
	articles    []models.Article
	sessionRepo repositories.SessionRepository
}

// NewWorkflowService restores the working set from the session repository.
// A failed load degrades to an empty set; the in-memory copy is
// authoritative from then on.
func NewWorkflowService(sessionRepo repositories.SessionRepository) WorkflowService {
	articles, err := sessionRepo.LoadArticles()
	if err != nil {
		logger.Warn("failed to load saved articles, starting empty", "error", err.Error())
		articles = nil
	}
	metrics.ArticlesLive.Set(float64(len(articles)))
	return &workflowService{
		articles:    articles,
		sessionRepo: sessionRepo,
	}
}

func (s *workflowService) Create(title, body string, category models.ArticleCategory) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.articles) >= MaxArticles {
		return nil, ErrArticleLimitReached
	}

	now := time.Now()
	article := models.Article{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		Category:  category,
		State:     models.StateDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.articles = append(s.articles, article)
	s.persist()

	logger.Info("article created", "id", article.ID, "category", string(category))
	return &article, nil
}

// Update patches fields without touching state. Field-level validation is
// the HTTP layer's job.
func (s *workflowService) Update(id string, req models.UpdateArticleRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	article := &s.articles[idx]
	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Body != nil {
		article.Body = *req.Body
	}
	if req.Category != nil {
		article.Category = *req.Category
	}
	article.UpdatedAt = time.Now()
	s.persist()
	return true
}

// PerformAction applies one transition. An action outside the rule table for
// (role, current state) is rejected with a reason and the article is left
// untouched. Delete removes the article instead of changing its state.
func (s *workflowService) PerformAction(id string, action models.ActionType, role models.Role) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		metrics.ActionsTotal.WithLabelValues(string(role), string(action), "false").Inc()
		return false, "article not found"
	}

	article := &s.articles[idx]
	if !actionPermitted(role, article.State, action) {
		metrics.ActionsTotal.WithLabelValues(string(role), string(action), "false").Inc()
		return false, fmt.Sprintf("action %q is not allowed for role %q in state %q", action, role, article.State)
	}

	if action == models.ActionDelete {
		s.articles = append(s.articles[:idx], s.articles[idx+1:]...)
		s.persist()
		metrics.ActionsTotal.WithLabelValues(string(role), string(action), "true").Inc()
		logger.Info("article deleted", "id", id, "role", string(role))
		return true, ""
	}

	prevState := article.State
	article.State = actionResults[action]
	if action == models.ActionEdit && (prevState == models.StatePublished || prevState == models.StateUnpublished) {
		article.WasEdited = true
	}
	article.UpdatedAt = time.Now()
	s.persist()

	metrics.ActionsTotal.WithLabelValues(string(role), string(action), "true").Inc()
	logger.Info("article transitioned",
		"id", id, "role", string(role), "action", string(action),
		"from", string(prevState), "to", string(article.State))
	return true, ""
}

func (s *workflowService) Get(id string) (*models.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	article := s.articles[idx]
	return &article, true
}

func (s *workflowService) Visible(role models.Role) []models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make(map[models.ArticleState]bool)
	for _, state := range roleVisibility[role] {
		visible[state] = true
	}

	out := make([]models.Article, 0, len(s.articles))
	for _, article := range s.articles {
		if visible[article.State] {
			out = append(out, article)
		}
	}
	return out
}

func (s *workflowService) All() []models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

func (s *workflowService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.articles = nil
	s.persist()
	logger.Info("all articles cleared")
}

func (s *workflowService) CanCreateMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles) < MaxArticles
}

func (s *workflowService) indexOf(id string) int {
	for i := range s.articles {
		if s.articles[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the working set through to the session repository. Save
// failures must not break the engine; they are logged and dropped.
// Callers hold the mutex.
func (s *workflowService) persist() {
	metrics.ArticlesLive.Set(float64(len(s.articles)))

	snapshot := make([]models.Article, len(s.articles))
	copy(snapshot, s.articles)
	if err := s.sessionRepo.SaveArticles(snapshot); err != nil {
		logger.Error("failed to persist articles", "error", err.Error())
	}
}

func actionPermitted(role models.Role, state models.ArticleState, action models.ActionType) bool {
	for _, permitted := range roleTransitions[role][state] {
		if permitted == action {
			return true
		}
	}
	return false
}
