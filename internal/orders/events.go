package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderImported     = "OrderImported"
	EventStatementReceived = "StatementReceived"
	EventOrderVerified     = "OrderPaymentVerified"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // mot trong cac const tren
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "ecogo-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // thuong la order code / statement id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payload per event ----

type ItemLine struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Qty   decimal.Decimal `json:"qty"`
	Price int64           `json:"price"`
}

type OrderImportedPayload struct {
	OrderCode  string     `json:"order_code"`
	Batch      string     `json:"batch"`
	CustomerID string     `json:"customer_id"`
	Items      []ItemLine `json:"items"`
	Total      int64      `json:"total"`
}

type StatementReceivedPayload struct {
	StatementID string `json:"statement_id"`
	Source      string `json:"source,omitempty"` // e.g. "casso", "manual"
	Text        string `json:"text"`
}

type OrderVerifiedPayload struct {
	OrderCode   string `json:"order_code"`
	Total       int64  `json:"total"`
	StatementID string `json:"statement_id,omitempty"`
}
