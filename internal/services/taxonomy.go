package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

// HierarchyLister is the repository slice the taxonomy service reads.
type HierarchyLister interface {
	ListHierarchy(ctx context.Context, householdID uuid.UUID) ([]entity.CategoryWithSubcategories, error)
}

// TaxonomyService renders a household's category hierarchy as the prompt
// fragment the extraction client expects, one "- Category: Sub, Sub" line per
// category. Fetched fresh on every call so the prompt always reflects current
// data.
type TaxonomyService struct {
	categories HierarchyLister
}

func NewTaxonomyService(categories HierarchyLister) *TaxonomyService {
	return &TaxonomyService{categories: categories}
}

func (s *TaxonomyService) TaxonomyText(ctx context.Context, householdID uuid.UUID) (string, error) {
	hierarchy, err := s.categories.ListHierarchy(ctx, householdID)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, cat := range hierarchy {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(cat.Name)
		if len(cat.Subcategories) > 0 {
			b.WriteString(": ")
			b.WriteString(strings.Join(cat.Subcategories, ", "))
		}
	}
	return b.String(), nil
}
