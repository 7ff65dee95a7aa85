package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/toaiking/ECOGO-sub002/internal/kafka"
	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/redisx"
)

// CandidateSource is what the service needs from storage.
type CandidateSource interface {
	ListCandidates(ctx context.Context, methods []orders.PaymentMethod) ([]orders.Order, error)
	MarkVerified(ctx context.Context, codes []string) (int64, error)
}

var _ CandidateSource = (*orders.ReconcileRepo)(nil)

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

var _ Publisher = (*kafkax.Producer)(nil)

// Cache is the slice of the redis client the service touches: SETNX for
// event dedup, DEL to bust the order-status cache.
type Cache interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Cache = (*redis.Client)(nil)

type Service struct {
	Repo        CandidateSource
	Redis       Cache // optional
	Producer    Publisher
	Methods     []orders.PaymentMethod // phuong thuc duoc doi soat, thuong chi TRANSFER
	ServiceName string
}

type Input struct {
	StatementID string
	TraceID     string
	Text        string
	DryRun      bool
}

type MatchedOrder struct {
	Code  string `json:"code"`
	Total int64  `json:"total"`
}

type Result struct {
	Matched []MatchedOrder `json:"matched"`
	Count   int            `json:"count"`
	Total   int64          `json:"total"`
	DryRun  bool           `json:"dry_run"`
}

// Reconcile matches the statement text against the open candidate pool and,
// unless DryRun, marks the hits verified, drops their cached status and
// publishes one order.payment.verified event per order.
func (s *Service) Reconcile(ctx context.Context, in Input) (*Result, error) {
	candidates, err := s.Repo.ListCandidates(ctx, s.Methods)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	matched, total := Match(in.Text, candidates)

	res := &Result{Count: len(matched), Total: total, DryRun: in.DryRun}
	for _, o := range matched {
		res.Matched = append(res.Matched, MatchedOrder{Code: o.Code, Total: o.Total})
	}
	if in.DryRun || len(matched) == 0 {
		return res, nil
	}

	codes := make([]string, 0, len(matched))
	for _, o := range matched {
		codes = append(codes, o.Code)
	}
	if _, err := s.Repo.MarkVerified(ctx, codes); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}

	for _, o := range matched {
		if s.Redis != nil {
			// xoa cache de lan doc sau thay paid=true
			_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, o.Code)).Err()
		}
		s.publishVerified(o, in.StatementID, in.TraceID)
	}
	return res, nil
}

func (s *Service) publishVerified(o orders.Order, statementID, trace string) {
	if s.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderVerified,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: o.Code,
		Payload: kafkax.MustMarshal(orders.OrderVerifiedPayload{
			OrderCode:   o.Code,
			Total:       o.Total,
			StatementID: statementID,
		}),
	}
	s.Producer.Publish(orders.PartitionKey(o.Code), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderVerified)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
