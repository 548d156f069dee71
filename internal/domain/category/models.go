package category

import (
	"context"
	"time"
)

// IncomeName is the seed category positive unmatched transactions fall back
// to during categorization.
const IncomeName = "Receitas"

// Category is reference data: a two-level spending hierarchy seeded at
// install time and rarely changed afterwards.
type Category struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Color            string    `json:"color"`
	ParentCategoryID *string   `json:"parentCategoryId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Repository interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
}
