package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs a unit of work that spans several collections.
type Transactor interface {
	// WithTransaction runs fn; repositories called with the ctx passed to fn take part in
	// the transaction when the implementation is atomic.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether WithTransaction rolls back fn's writes on failure.
	Atomic() bool
}

// NewTransactor returns a session-backed transactor when enabled (requires a replica set),
// otherwise one that runs fn directly.
func NewTransactor(client *mongo.Client, enabled bool) Transactor {
	if enabled {
		return &mongoTransactor{client: client}
	}
	return directTransactor{}
}

type mongoTransactor struct {
	client *mongo.Client
}

func (t *mongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (t *mongoTransactor) Atomic() bool { return true }

type directTransactor struct{}

func (directTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (directTransactor) Atomic() bool { return false }
