package database

import "context"

// Transactor runs fn as one atomic unit: either every repository write inside
// fn is persisted, or none are. The PostgreSQL implementation carries the
// transaction in the context so repositories route onto it through GetQuerier.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
