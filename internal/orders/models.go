package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PayCash     PaymentMethod = "CASH"
	PayTransfer PaymentMethod = "TRANSFER"
	PayPaid     PaymentMethod = "PAID" // thu tien truoc, ngoai he thong
)

type Customer struct {
	ID          string // so dien thoai chuan hoa, uuid khi thieu so
	Name        string
	Phone       string
	Address     string
	OrderCount  int
	LastOrderAt time.Time
	Priority    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	SKU          string // slug tu ten, xem MakeSKU
	Name         string
	Price        int64 // VND
	ImportPrice  int64 // VND
	Stock        decimal.Decimal
	TotalStocked decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Order struct {
	Code       string // 8 ky tu in hoa, khach ghi vao noi dung chuyen khoan
	CustomerID string
	Batch      string
	Items      []OrderItem
	Total      int64 // VND
	Method     PaymentMethod
	Paid       bool // tien ve da doi soat
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem snapshots name and prices at import time; later product edits
// never rewrite history.
type OrderItem struct {
	SKU         string
	Name        string
	Qty         decimal.Decimal
	Price       int64
	ImportPrice int64
}
