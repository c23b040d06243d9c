package messaging

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// GraphSink records user to laptop edges in Neo4j.
type GraphSink struct {
	driver neo4j.DriverWithContext
	logger *logrus.Logger
}

func NewGraphSink(driver neo4j.DriverWithContext, logger *logrus.Logger) *GraphSink {
	return &GraphSink{driver: driver, logger: logger}
}

const interactionCypher = `
	MERGE (u:User {id: $user_id})
	WITH u
	UNWIND $item_ids AS item_id
	MERGE (l:Laptop {id: item_id})
	MERGE (u)-[r:INTERACTED {action: $action}]->(l)
	ON CREATE SET r.count = 0
	SET r.count = r.count + 1, r.last_seen = datetime($timestamp)`

// graphStatement maps an event to cypher parameters; ok is false for events
// that carry no items.
func graphStatement(event models.AnalyticsEvent) (map[string]interface{}, bool) {
	if event.UserID == "" || len(event.ItemIDs) == 0 {
		return nil, false
	}
	action := event.Action
	if action == "" {
		action = event.Type
	}
	return map[string]interface{}{
		"user_id":   event.UserID,
		"item_ids":  event.ItemIDs,
		"action":    action,
		"timestamp": event.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}, true
}

func (s *GraphSink) Record(ctx context.Context, event models.AnalyticsEvent) error {
	params, ok := graphStatement(event)
	if !ok {
		return nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, interactionCypher, params)
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters(), nil
	})
	if err != nil {
		return fmt.Errorf("failed to record interaction graph: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": event.UserID,
		"items":   len(event.ItemIDs),
	}).Debug("Recorded interaction edges")
	return nil
}
