package categoryrule

import (
	"context"
	"time"
)

// CategoryRule is a learned keyword -> category association. AccountID nil
// means a global seed rule shared by every user; non-nil rules encode one
// user's explicit corrections and outrank global rules on ties. Unique per
// (keyword, accountID, categoryID).
type CategoryRule struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	AccountID   *string   `json:"accountId,omitempty"`
	CategoryID  string    `json:"categoryId"`
	Occurrences int64     `json:"occurrences"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Candidate pairs a rule with the score the store computed for it against a
// sanitized description: max(trigram similarity, 1.0 on a whole-word match).
type Candidate struct {
	Rule  CategoryRule
	Score float64
}

type UpsertRuleParams struct {
	Keyword    string
	AccountID  *string
	CategoryID string
}

type Repository interface {
	// FindCandidates returns every rule scoped to the account or global whose
	// keyword clears the similarity threshold or occurs as a whole word in the
	// sanitized description, each with its score. Ordering is the caller's
	// concern.
	FindCandidates(ctx context.Context, sanitizedDescription, accountID string) ([]Candidate, error)

	// Upsert atomically creates the rule or, when the (keyword, accountID,
	// categoryID) tuple exists, bumps occurrences and updatedAt.
	Upsert(ctx context.Context, params UpsertRuleParams) (*CategoryRule, error)
}
