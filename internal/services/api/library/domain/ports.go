package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Library(ctx context.Context, in LibraryInput) (LibraryPage, error)
	Aggregations(ctx context.Context, in LibraryInput) (Aggregations, error)
}
