package unitofwork

import "context"

// RepositoryFactory hands each request its own UnitOfWork. Services hold
// the factory, never a UnitOfWork, so no transaction state leaks between
// requests.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
