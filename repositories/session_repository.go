package repositories

import (
	"qa-workflow-simulator/models"

	"gorm.io/gorm"
)

// SessionRepository is the durable side of a training session: the article
// working set and the trainee's discovered-defect progress. The workflow
// engine keeps the authoritative copy in memory and writes through here.
type SessionRepository interface {
	LoadArticles() ([]models.Article, error)
	SaveArticles(articles []models.Article) error
	LoadDefects() ([]models.Defect, error)
	SaveDefects(defects []models.Defect) error
	Reset() error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) LoadArticles() ([]models.Article, error) {
	var articles []models.Article
	err := r.db.Order("created_at asc").Find(&articles).Error
	return articles, err
}

// SaveArticles replaces the stored set wholesale. The working set is capped
// at ten articles, so replace-on-save is cheaper than diffing.
func (r *sessionRepository) SaveArticles(articles []models.Article) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Article{}).Error; err != nil {
			return err
		}
		if len(articles) == 0 {
			return nil
		}
		return tx.Create(&articles).Error
	})
}

func (r *sessionRepository) LoadDefects() ([]models.Defect, error) {
	var defects []models.Defect
	err := r.db.Order("found_at asc").Find(&defects).Error
	return defects, err
}

func (r *sessionRepository) SaveDefects(defects []models.Defect) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Defect{}).Error; err != nil {
			return err
		}
		if len(defects) == 0 {
			return nil
		}
		return tx.Create(&defects).Error
	})
}

func (r *sessionRepository) Reset() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Article{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.Defect{}).Error
	})
}
