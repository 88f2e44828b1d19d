package models

import (
	"time"
)

type ArticleState string

const (
	StateDraft       ArticleState = "draft"
	StateInReview    ArticleState = "in_review"
	StateRejected    ArticleState = "rejected"
	StatePublished   ArticleState = "published"
	StateUnpublished ArticleState = "unpublished"
	StateArchived    ArticleState = "archived"
)

type ArticleCategory string

const (
	CategoryTechnology    ArticleCategory = "Technology"
	CategoryScience       ArticleCategory = "Science"
	CategoryHealth        ArticleCategory = "Health"
	CategoryBusiness      ArticleCategory = "Business"
	CategoryEntertainment ArticleCategory = "Entertainment"
)

type ActionType string

const (
	ActionEdit            ActionType = "edit"
	ActionDelete          ActionType = "delete"
	ActionSubmitForReview ActionType = "submit_for_review"
	ActionApprove         ActionType = "approve"
	ActionReject          ActionType = "reject"
	ActionPublish         ActionType = "publish"
	ActionUnpublish       ActionType = "unpublish"
	ActionRepublish       ActionType = "republish"
	ActionArchive         ActionType = "archive"
)

type Article struct {
	ID        string          `json:"id" gorm:"primarykey"`
	Title     string          `json:"title" gorm:"not null"`
	Body      string          `json:"body" gorm:"type:text"`
	Category  ArticleCategory `json:"category" gorm:"not null"`
	State     ArticleState    `json:"state" gorm:"default:'draft'"`
	WasEdited bool            `json:"was_edited" gorm:"default:false"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func IsValidCategory(category ArticleCategory) bool {
	switch category {
	case CategoryTechnology, CategoryScience, CategoryHealth, CategoryBusiness, CategoryEntertainment:
		return true
	}
	return false
}
