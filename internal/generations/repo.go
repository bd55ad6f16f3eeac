package generations

import "context"

// Repo defines persistence operations for generation records.
type Repo interface {
	Create(ctx context.Context, gen Generation) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Generation, error)
}
