package task

import "context"

// Repo is the planner's task store. Lookups that miss report found=false
// rather than an error; Remove of an absent id is a no-op.
type Repo interface {
	Add(ctx context.Context, d Draft) (Task, error)
	Get(ctx context.Context, id string) (Task, bool, error)
	List(ctx context.Context, filter Filter) ([]Task, error)
	Update(ctx context.Context, id string, f Fields) (Task, bool, error)
	SetStatus(ctx context.Context, id string, status Status) (Task, bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	Upcoming(ctx context.Context, limit int) ([]Task, error)
	Counts(ctx context.Context) (Counts, error)
	Reset(ctx context.Context, seed []Task) error
}
