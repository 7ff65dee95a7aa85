package orders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReconcileRepo struct{ DB *pgxpool.Pool }

// ListCandidates: don chua thu tien, chua huy, phuong thuc thuoc danh sach
// duoc doi soat.
func (r *ReconcileRepo) ListCandidates(ctx context.Context, methods []PaymentMethod) ([]Order, error) {
	ms := make([]string, 0, len(methods))
	for _, m := range methods {
		ms = append(ms, string(m))
	}
	rows, err := r.DB.Query(ctx, `
		SELECT code, customer_id, batch, total, method, paid, status, created_at, updated_at
		FROM orders
		WHERE paid = false AND status <> $1 AND method = ANY($2)
		ORDER BY created_at`, string(StatusCancelled), ms)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var method, status string
		if err := rows.Scan(&o.Code, &o.CustomerID, &o.Batch, &o.Total, &method, &o.Paid, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Method, o.Status = PaymentMethod(method), Status(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

// MarkVerified flips paid on the matched codes. Already-verified codes stay
// untouched, so a replayed statement is harmless.
func (r *ReconcileRepo) MarkVerified(ctx context.Context, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET paid = true, updated_at = now()
		WHERE code = ANY($1) AND paid = false`, codes)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
