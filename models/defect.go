package models

import (
	"time"
)

// Defect is one discovered instance of a known discrepancy between the
// intended transition rules and what the simulator actually lets through.
type Defect struct {
	ID           string    `json:"id" gorm:"primarykey"`
	Summary      string    `json:"summary" gorm:"not null"`
	Reproduction string    `json:"reproduction" gorm:"type:text"`
	FoundAt      time.Time `json:"found_at"`
}

// ActionContext is the pre-mutation tuple the defect detector evaluates.
// Action is a plain string because some callers pass synthetic names
// ("view", "create", "save-unchanged") that are not state-machine actions.
type ActionContext struct {
	FromState ArticleState
	Action    string
	Title     string
	Role      Role
}
