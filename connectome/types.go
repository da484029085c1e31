// Package connectome persists sampled connectivity into Neo4j, the way
// published connectome services model it: one :Neuron node per skeleton,
// one :CONNECTS_TO relationship per partner pair, weighted by synapse
// count. The store also reads weighted adjacency back out for analysis.
//
// Database access goes through the Service interface so handlers are
// testable with mocks; the real implementation wraps the v5 driver.
//
// Errors:
//
//	ErrNilService   - store constructed without a database service.
//	ErrNotConfirmed - Wipe called without the confirmation flag.
//	ErrBadRecord    - a query result row had an unexpected shape.
package connectome

//go:generate mockgen -destination=mocks/mock_service.go -package=connectome_mocks github.com/NikDrummond/pntools/connectome Service

import (
	"context"
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Sentinel errors for connectome operations.
var (
	// ErrNilService indicates a store constructed without a Service.
	ErrNilService = errors.New("connectome: service is nil")

	// ErrNotConfirmed indicates Wipe was called without confirmation.
	ErrNotConfirmed = errors.New("connectome: wipe not confirmed")

	// ErrBadRecord indicates a query row with an unexpected shape.
	ErrBadRecord = errors.New("connectome: malformed query record")
)

// Service is the database surface the store depends on.
type Service interface {
	// ExecuteReadQuery runs a read transaction and collects all records.
	ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)

	// ExecuteWriteQuery runs a write transaction, discarding records.
	ExecuteWriteQuery(ctx context.Context, query string, params map[string]any) error

	// Close releases the underlying driver.
	Close(ctx context.Context) error
}

// Edge is one weighted connection between two stored neurons.
type Edge struct {
	// From and To are skeleton IDs; the direction is pre → post.
	From string
	To   string

	// Weight is the synapse count backing the connection.
	Weight int64
}
