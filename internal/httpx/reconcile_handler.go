package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/toaiking/ECOGO-sub002/internal/kafka"
	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/reconcile"
)

// Reconciler runs the synchronous match-and-verify flow.
type Reconciler interface {
	Reconcile(ctx context.Context, in reconcile.Input) (*reconcile.Result, error)
}

var _ Reconciler = (*reconcile.Service)(nil)

type ReconcileHandler struct {
	Service    Reconciler
	Statements Publisher // topic bank.statement.received
	Producer   string    // service name for the envelope
}

type ReconcileReq struct {
	Text   string `json:"text"`
	DryRun bool   `json:"dry_run"`
}

type StatementReq struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type StatementResp struct {
	StatementID string `json:"statement_id"`
}

func (h *ReconcileHandler) Register(r *chi.Mux) {
	r.Post("/reconcile", h.runReconcile)
	r.Post("/statements", h.acceptStatement)
}

// runReconcile matches pasted statement text right away. dry_run previews
// the hits without marking anything paid.
func (h *ReconcileHandler) runReconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "missing text")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Service.Reconcile(ctx, reconcile.Input{
		StatementID: "manual-" + uuid.NewString(),
		TraceID:     r.Header.Get("X-Request-Id"),
		Text:        req.Text,
		DryRun:      req.DryRun,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// acceptStatement just parks the excerpt on Kafka; cmd/reconciler picks it
// up. Returns 202 with the statement id for correlation.
func (h *ReconcileHandler) acceptStatement(w http.ResponseWriter, r *http.Request) {
	var req StatementReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "missing text")
		return
	}

	id := uuid.NewString()
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventStatementReceived,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Producer,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: id,
		Payload: kafkax.MustMarshal(orders.StatementReceivedPayload{
			StatementID: id,
			Source:      req.Source,
			Text:        req.Text,
		}),
	}
	h.Statements.Publish(orders.PartitionKey(id), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventStatementReceived)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	writeJSON(w, http.StatusAccepted, StatementResp{StatementID: id})
}
