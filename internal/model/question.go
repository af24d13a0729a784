package model

import "time"

// Category labels a question with the kind of expertise it needs.
type Category string

const (
	CategoryTheory      Category = "theory"
	CategoryCalculation Category = "calculation"
	CategorySafety      Category = "safety"
	CategoryDesign      Category = "design"
	CategoryGeneral     Category = "general"
)

type Question struct {
	Text     string    `json:"text"`
	Category Category  `json:"category"`
	AskedAt  time.Time `json:"asked_at"`
}
