package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/toaiking/ECOGO-sub002/internal/kafka"
	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/redisx"
)

// HandleStatement is mounted as the Kafka consumer handler for
// bank.statement.received.
func (s *Service) HandleStatement(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventStatementReceived {
		return nil // ignore
	}

	// dedup theo event_id, replay tu Kafka khong doi soat lai; SETNX de hai
	// worker khong cung thang claim
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "reconciler", env.EventID)
		won, err := redisx.ClaimOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
		if err == nil && !won {
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[orders.StatementReceivedPayload](env.Payload)
	if err != nil {
		return err
	}

	res, err := s.Reconcile(ctx, Input{
		StatementID: p.StatementID,
		TraceID:     env.TraceID,
		Text:        p.Text,
	})
	if err != nil {
		return err
	}
	log.Printf("statement %s: matched %d orders, total %d", p.StatementID, res.Count, res.Total)
	return nil
}
