package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/toaiking/ECOGO-sub002/internal/extract"
	"github.com/toaiking/ECOGO-sub002/internal/importer"
	kafkax "github.com/toaiking/ECOGO-sub002/internal/kafka"
	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/redisx"
)

// ImportRunner is the batch importer as the handler sees it.
type ImportRunner interface {
	Run(ctx context.Context, batch string, rows []importer.RawRow) (*importer.Result, error)
}

var _ ImportRunner = (*importer.Importer)(nil)

// DraftParser is the external text-understanding client.
type DraftParser interface {
	Parse(ctx context.Context, req extract.ParseRequest) (*extract.ParseResponse, error)
}

var _ DraftParser = (*extract.Client)(nil)

type Catalog interface {
	ListProducts(ctx context.Context) ([]orders.Product, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

var _ Publisher = (*kafkax.Producer)(nil)

type ImportsHandler struct {
	Importer ImportRunner
	Extract  DraftParser
	Catalog  Catalog
	Producer Publisher     // topic order.imported
	Redis    *redis.Client // optional, chan import trung batch
	Service  string
}

type ImportReq struct {
	Batch string            `json:"batch"`
	Rows  []importer.RawRow `json:"rows"`
}

type DraftReq struct {
	Text string `json:"text"`
}

func (h *ImportsHandler) Register(r *chi.Mux) {
	r.Post("/imports", h.runImport)
	r.Post("/imports/draft", h.draftImport)
}

func (h *ImportsHandler) runImport(w http.ResponseWriter, r *http.Request) {
	var req ImportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Batch == "" || len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "missing batch or rows")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	// mot batch label chi import 1 lan; import lai thi doi ten batch
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyIdemImport, req.Batch)
		won, err := redisx.ClaimOnce(ctx, h.Redis, key, redisx.TTLIdempotency)
		if err == nil && !won {
			writeError(w, http.StatusConflict, fmt.Sprintf("batch %q already imported", req.Batch))
			return
		}
	}

	res, err := h.Importer.Run(ctx, req.Batch, req.Rows)
	if err != nil {
		// batch that bai tron goi, go claim de retry duoc ngay
		if h.Redis != nil {
			_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyIdemImport, req.Batch)).Err()
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	for _, o := range res.Saved {
		h.publishImported(o, r.Header.Get("X-Request-Id"))
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ImportsHandler) publishImported(o *orders.Order, trace string) {
	if h.Producer == nil {
		return
	}
	lines := make([]orders.ItemLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, orders.ItemLine{SKU: it.SKU, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderImported,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: o.Code,
		Payload: kafkax.MustMarshal(orders.OrderImportedPayload{
			OrderCode:  o.Code,
			Batch:      o.Batch,
			CustomerID: o.CustomerID,
			Items:      lines,
			Total:      o.Total,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(o.Code), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderImported)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// draftImport forwards pasted text to the extract service and returns its
// best-effort rows untouched. Humans review the draft before POST /imports.
func (h *ImportsHandler) draftImport(w http.ResponseWriter, r *http.Request) {
	var req DraftReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "missing text")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	var known []string
	if h.Catalog != nil {
		if ps, err := h.Catalog.ListProducts(ctx); err == nil {
			for _, p := range ps {
				known = append(known, p.Name)
			}
		}
	}

	out, err := h.Extract.Parse(ctx, extract.ParseRequest{Text: req.Text, KnownProducts: known})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}
