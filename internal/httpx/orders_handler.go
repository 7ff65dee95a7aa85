package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/redisx"
	"github.com/toaiking/ECOGO-sub002/internal/vietqr"
)

type OrdersHandler struct {
	Repo        *orders.Repo
	Redis       *redis.Client
	Banks       *vietqr.BankDirectory
	BankCode    string
	BankAccount string
}

type OrderItemResp struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Qty   decimal.Decimal `json:"qty"`
	Price int64           `json:"price"`
}

type OrderResp struct {
	Code       string               `json:"code"`
	CustomerID string               `json:"customer_id"`
	Batch      string               `json:"batch,omitempty"`
	Items      []OrderItemResp      `json:"items"`
	Total      int64                `json:"total"`
	Method     orders.PaymentMethod `json:"method"`
	Paid       bool                 `json:"paid"`
	Status     orders.Status        `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders/{code}", h.getOrder)
	r.Get("/orders/{code}/qr", h.getOrderQR)
	r.Get("/products", h.listProducts)
	r.Get("/products/{sku}", h.getProduct)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) thu cache
	key := fmt.Sprintf(redisx.KeyOrderStatus, code)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	// 2) fallback DB
	o, err := h.Repo.GetOrder(ctx, code)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	b, _ := json.Marshal(toOrderResp(o))
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) getOrderQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Repo.GetOrder(ctx, code)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if o.Paid {
		writeError(w, http.StatusConflict, "order already paid")
		return
	}
	if o.Status == orders.StatusCancelled {
		writeError(w, http.StatusConflict, "order cancelled")
		return
	}

	if _, ok := h.Banks.BIN(h.BankCode); !ok {
		log.Printf("bank code %q khong co trong danh ba, dung BIN fallback", h.BankCode)
	}
	payload := vietqr.Encode(h.Banks, vietqr.Request{
		BankCode:  h.BankCode,
		AccountNo: h.BankAccount,
		Amount:    o.Total,
		Purpose:   o.Code, // khach quet QR, noi dung ck mang ma don de doi soat
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"code":    o.Code,
		"amount":  o.Total,
		"payload": payload,
	})
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListProducts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.GetProduct(ctx, sku)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func toOrderResp(o *orders.Order) OrderResp {
	items := make([]OrderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResp{SKU: it.SKU, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	return OrderResp{
		Code:       o.Code,
		CustomerID: o.CustomerID,
		Batch:      o.Batch,
		Items:      items,
		Total:      o.Total,
		Method:     o.Method,
		Paid:       o.Paid,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}
