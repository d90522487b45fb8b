package entity

import "github.com/google/uuid"

type Category struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Name        string    `json:"name"`
}

type Subcategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// CategoryWithSubcategories is one node of a household's taxonomy snapshot,
// ordered by category name with subcategory names ordered within it.
type CategoryWithSubcategories struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}
