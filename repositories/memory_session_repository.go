package repositories

import (
	"sync"

	"qa-workflow-simulator/models"
)

// memorySessionRepository keeps session state in process memory. It backs
// tests and is the degraded mode when the database is unreachable at boot:
// the simulator stays usable, progress just does not survive a restart.
type memorySessionRepository struct {
	mu       sync.Mutex
	articles []models.Article
	defects  []models.Defect
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{}
}

func (r *memorySessionRepository) LoadArticles() ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Article, len(r.articles))
	copy(out, r.articles)
	return out, nil
}

func (r *memorySessionRepository) SaveArticles(articles []models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles = make([]models.Article, len(articles))
	copy(r.articles, articles)
	return nil
}

func (r *memorySessionRepository) LoadDefects() ([]models.Defect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Defect, len(r.defects))
	copy(out, r.defects)
	return out, nil
}

func (r *memorySessionRepository) SaveDefects(defects []models.Defect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defects = make([]models.Defect, len(defects))
	copy(r.defects, defects)
	return nil
}

func (r *memorySessionRepository) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles = nil
	r.defects = nil
	return nil
}
