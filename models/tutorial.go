package models

import "time"

// Tutorial.Description holds either plain text or a JSON-encoded plan.
type Tutorial struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"productId"`
	Product     *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	VideoPath   string    `gorm:"size:255;not null" json:"videoPath"`
	Description string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TutorialStep struct {
	StepNumber  int      `json:"stepNumber"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

type TutorialPlan struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Steps           []TutorialStep `json:"steps"`
	EstimatedTime   string         `json:"estimatedTime"`
	Difficulty      string         `json:"difficulty"`
	MaterialsNeeded []string       `json:"materialsNeeded"`
}

// TutorialView is a stored tutorial with its description decoded when it
// is a plan.
type TutorialView struct {
	Tutorial
	Plan *TutorialPlan `json:"plan,omitempty"`
	Text string        `json:"description,omitempty"`
}
