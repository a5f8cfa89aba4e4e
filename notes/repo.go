package notes

import "context"

// Repo is the remote notes store. The server is authoritative for every record it returns.
type Repo interface {
	List(ctx context.Context) ([]Note, error)
	Create(ctx context.Context, draft Draft) (*Note, error)
	Update(ctx context.Context, id string, draft Draft) (*Note, error)
	Delete(ctx context.Context, id string) error
}
