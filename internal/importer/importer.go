// Package importer turns raw order-sheet rows (pasted from chat, Excel or
// the draft extractor) into persisted customers, products and orders.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/toaiking/ECOGO-sub002/internal/itemtext"
	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/vntext"
)

// RawRow is one line of an import sheet, as loose as the source material.
// Price is the whole-order price in thousands of VND; zero means not given.
type RawRow struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Items   string          `json:"items"`
	Price   decimal.Decimal `json:"price"`
}

// Store is the persistence the importer needs.
type Store interface {
	FindCustomer(ctx context.Context, phone, address string) (*orders.Customer, error)
	UpsertCustomer(ctx context.Context, c *orders.Customer) error
	ListProducts(ctx context.Context) ([]orders.Product, error)
	SaveImport(ctx context.Context, products []*orders.Product, pending []*orders.Order) error
}

var _ Store = (*orders.Repo)(nil)

const (
	minPhoneID = 9    // digits needed to use the phone itself as customer id
	seedStock  = 50   // first stock for a product never stocked before
	priceScale = 1000 // sheet prices are thousands of VND
)

type Importer struct {
	Store Store
}

type Result struct {
	Batch     string   `json:"batch"`
	Rows      int      `json:"rows"`
	Orders    []string `json:"orders"` // codes, row order
	Products  int      `json:"products"`
	Customers int      `json:"customers"` // newly created
	Total     int64    `json:"total"`
	Summary   string   `json:"summary"`

	Saved []*orders.Order `json:"-"` // de caller publish event sau khi luu
}

// Run processes rows strictly in order. Customers are persisted the moment
// they are resolved; products and orders only after every row has parsed,
// products before orders, in one transaction. Any row error aborts the whole
// batch and nothing from the product/order side is persisted.
func (imp *Importer) Run(ctx context.Context, batch string, rows []RawRow) (*Result, error) {
	list, err := imp.Store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	stored := make(map[string]orders.Product, len(list))
	for _, p := range list {
		stored[p.SKU] = p
	}

	touched := map[string]*orders.Product{}
	var touchOrder []string // map iteration is random, keep first-touch order
	var pending []*orders.Order
	newCustomers := 0
	var total int64

	for i, row := range rows {
		cust, created, err := imp.resolveCustomer(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if created {
			newCustomers++
		}

		o := buildOrder(batch, row, cust, stored, touched, &touchOrder)
		pending = append(pending, o)
		total += o.Total
	}

	products := make([]*orders.Product, 0, len(touchOrder))
	for _, sku := range touchOrder {
		products = append(products, touched[sku])
	}
	if err := imp.Store.SaveImport(ctx, products, pending); err != nil {
		return nil, fmt.Errorf("batch %s: %w", batch, err)
	}

	codes := make([]string, 0, len(pending))
	for _, o := range pending {
		codes = append(codes, o.Code)
	}
	return &Result{
		Batch:     batch,
		Rows:      len(rows),
		Orders:    codes,
		Products:  len(products),
		Customers: newCustomers,
		Total:     total,
		Summary: fmt.Sprintf("batch %q: %d don, %d san pham, %d khach moi, tong %d VND",
			batch, len(pending), len(products), newCustomers, total),
		Saved: pending,
	}, nil
}

func (imp *Importer) resolveCustomer(ctx context.Context, row RawRow) (*orders.Customer, bool, error) {
	phone := vntext.NormalizePhone(row.Phone)
	address := strings.TrimSpace(row.Address)

	c, err := imp.Store.FindCustomer(ctx, phone, address)
	if err != nil {
		return nil, false, fmt.Errorf("find customer: %w", err)
	}
	if c != nil {
		return c, false, nil
	}

	id := phone
	if len(id) < minPhoneID {
		id = uuid.NewString()
	}
	c = &orders.Customer{
		ID:      id,
		Name:    strings.TrimSpace(row.Name),
		Phone:   phone,
		Address: address,
	}
	if err := imp.Store.UpsertCustomer(ctx, c); err != nil {
		return nil, false, fmt.Errorf("save customer: %w", err)
	}
	return c, true, nil
}

func buildOrder(batch string, row RawRow, cust *orders.Customer,
	stored map[string]orders.Product, touched map[string]*orders.Product, touchOrder *[]string) *orders.Order {

	parsed := itemtext.Parse(row.Items)
	items := make([]orders.OrderItem, 0, len(parsed))
	for _, it := range parsed {
		p := resolveProduct(it.Name, stored, touched, touchOrder)
		items = append(items, orders.OrderItem{
			SKU:         p.SKU,
			Name:        p.Name,
			Qty:         it.Quantity,
			Price:       p.Price,
			ImportPrice: p.ImportPrice,
		})
	}

	return &orders.Order{
		Code:       orders.NewOrderCode(),
		CustomerID: cust.ID,
		Batch:      batch,
		Items:      items,
		Total:      orderTotal(row, items),
		Method:     orders.PayTransfer,
		Status:     orders.StatusPending,
	}
}

// resolveProduct: per-batch map first, then the preloaded product list, else
// a brand new product. First touch in the batch with a zero cumulative
// counter seeds stock so the product is immediately sellable. Repeated
// mentions in the batch converge on the same instance.
func resolveProduct(name string, stored map[string]orders.Product, touched map[string]*orders.Product, touchOrder *[]string) *orders.Product {
	sku := orders.MakeSKU(name)
	if p, ok := touched[sku]; ok {
		return p
	}

	var p orders.Product
	if sp, ok := stored[sku]; ok {
		p = sp
	} else {
		p = orders.Product{
			SKU:          sku,
			Name:         strings.TrimSpace(name),
			Stock:        decimal.Zero,
			TotalStocked: decimal.Zero,
		}
	}
	if p.TotalStocked.IsZero() {
		seed := decimal.NewFromInt(seedStock)
		p.Stock = seed
		p.TotalStocked = seed
	}

	touched[sku] = &p
	*touchOrder = append(*touchOrder, sku)
	return &p
}

// orderTotal: explicit sheet price wins (scaled to VND), else sum of
// snapshot price x qty, else 0.
func orderTotal(row RawRow, items []orders.OrderItem) int64 {
	if row.Price.IsPositive() {
		return row.Price.Mul(decimal.NewFromInt(priceScale)).Round(0).IntPart()
	}
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Qty.Mul(decimal.NewFromInt(it.Price)))
	}
	return sum.Round(0).IntPart()
}
