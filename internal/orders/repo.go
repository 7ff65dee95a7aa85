package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrNotFound = errors.New("not found")

// FindCustomer matches by normalized phone first, falling back to exact
// address. Empty keys never match anything.
func (r *Repo) FindCustomer(ctx context.Context, phone, address string) (*Customer, error) {
	if phone == "" && address == "" {
		return nil, nil
	}
	row := r.DB.QueryRow(ctx, `
		SELECT id, name, phone, address, order_count, last_order_at, priority, created_at, updated_at
		FROM customers
		WHERE (phone = $1 AND $1 <> '') OR (address = $2 AND $2 <> '')
		ORDER BY (phone = $1 AND $1 <> '') DESC
		LIMIT 1`, phone, address)

	var c Customer
	var last *time.Time
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.OrderCount, &last, &c.Priority, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if last != nil {
		c.LastOrderAt = *last
	}
	return &c, nil
}

// UpsertCustomer inserts or refreshes contact fields. Priority is only set
// on first insert; it is curated by hand afterwards.
func (r *Repo) UpsertCustomer(ctx context.Context, c *Customer) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO customers(id, name, phone, address, priority)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			updated_at = now()`,
		c.ID, c.Name, c.Phone, c.Address, c.Priority)
	return err
}

func (r *Repo) GetProduct(ctx context.Context, sku string) (*Product, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT sku, name, price, import_price, stock, total_stocked, created_at, updated_at
		FROM products WHERE sku = $1`, sku)
	var p Product
	err := row.Scan(&p.SKU, &p.Name, &p.Price, &p.ImportPrice, &p.Stock, &p.TotalStocked, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT sku, name, price, import_price, stock, total_stocked, created_at, updated_at
		FROM products ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.Price, &p.ImportPrice, &p.Stock, &p.TotalStocked, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetOrder(ctx context.Context, code string) (*Order, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT code, customer_id, batch, total, method, paid, status, created_at, updated_at
		FROM orders WHERE code = $1`, code)

	var o Order
	var method, status string
	err := row.Scan(&o.Code, &o.CustomerID, &o.Batch, &o.Total, &method, &o.Paid, &status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Method, o.Status = PaymentMethod(method), Status(status)

	rows, err := r.DB.Query(ctx, `
		SELECT sku, name, qty, price, import_price
		FROM order_items WHERE order_code = $1 ORDER BY id`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.SKU, &it.Name, &it.Qty, &it.Price, &it.ImportPrice); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

// SaveImport persists one finished batch in a single transaction: products
// first (orders reference their SKU), then orders with items, then customer
// counters. A failure anywhere leaves nothing from the batch behind.
func (r *Repo) SaveImport(ctx context.Context, products []*Product, pending []*Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range products {
		if _, err := tx.Exec(ctx, `
			INSERT INTO products(sku, name, price, import_price, stock, total_stocked)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (sku) DO UPDATE SET
				name = EXCLUDED.name,
				price = EXCLUDED.price,
				import_price = EXCLUDED.import_price,
				stock = EXCLUDED.stock,
				total_stocked = EXCLUDED.total_stocked,
				updated_at = now()`,
			p.SKU, p.Name, p.Price, p.ImportPrice, p.Stock, p.TotalStocked); err != nil {
			return fmt.Errorf("save product %s: %w", p.SKU, err)
		}
	}

	for _, o := range pending {
		if _, err := tx.Exec(ctx, `
			INSERT INTO orders(code, customer_id, batch, total, method, paid, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			o.Code, o.CustomerID, o.Batch, o.Total, string(o.Method), o.Paid, string(o.Status)); err != nil {
			return fmt.Errorf("save order %s: %w", o.Code, err)
		}
		for _, it := range o.Items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_items(order_code, sku, name, qty, price, import_price)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				o.Code, it.SKU, it.Name, it.Qty, it.Price, it.ImportPrice); err != nil {
				return fmt.Errorf("save order %s items: %w", o.Code, err)
			}
		}
		if _, err := tx.Exec(ctx, `
			UPDATE customers
			SET order_count = order_count + 1, last_order_at = now(), updated_at = now()
			WHERE id = $1`, o.CustomerID); err != nil {
			return fmt.Errorf("bump customer %s: %w", o.CustomerID, err)
		}
	}

	return tx.Commit(ctx)
}
