package connectome

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// neo4jService implements Service over the v5 driver.
type neo4jService struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewService connects to Neo4j and verifies connectivity before returning.
// database may be empty for the server default.
func NewService(ctx context.Context, uri, user, password, database string) (Service, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("connectome: create driver: %w", err)
	}
	if err = driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("connectome: verify connectivity: %w", err)
	}

	return &neo4jService{driver: driver, database: database}, nil
}

// ExecuteReadQuery runs query in a read transaction and collects records.
func (s *neo4jService) ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("connectome: read query: %w", err)
	}

	return records.([]*neo4j.Record), nil
}

// ExecuteWriteQuery runs query in a write transaction.
func (s *neo4jService) ExecuteWriteQuery(ctx context.Context, query string, params map[string]any) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if _, err = res.Consume(ctx); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("connectome: write query: %w", err)
	}

	return nil
}

// Close releases the driver.
func (s *neo4jService) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
