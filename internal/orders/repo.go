package orders

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id               TEXT PRIMARY KEY,
	session_id       TEXT NOT NULL DEFAULT '',
	customer         TEXT NOT NULL,
	email            TEXT NOT NULL,
	items            INT NOT NULL,
	subtotal         NUMERIC(12,2) NOT NULL,
	shipping         NUMERIC(12,2) NOT NULL,
	tax              NUMERIC(12,2) NOT NULL,
	total            NUMERIC(12,2) NOT NULL,
	status           TEXT NOT NULL,
	payment_status   TEXT NOT NULL,
	shipping_address TEXT NOT NULL,
	placed_at        TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS order_lines (
	order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	title      TEXT NOT NULL,
	sku        TEXT NOT NULL DEFAULT '',
	qty        INT NOT NULL,
	unit_price NUMERIC(12,2) NOT NULL,
	PRIMARY KEY (order_id, product_id)
);
CREATE INDEX IF NOT EXISTS orders_placed_at_idx ON orders (placed_at DESC);
`

const selectOrder = `SELECT id, customer, email, items, total::text, status, payment_status, placed_at, shipping_address FROM orders`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure orders schema: %w", err)
	}
	return nil
}

// Insert records a placed order with its lines. It is idempotent on the order id:
// inserted is false when the order was already recorded.
func (r *Repo) Insert(ctx context.Context, p OrderPlacedPayload) (inserted bool, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := p.Order()
	ct, err := tx.Exec(ctx, `
		INSERT INTO orders(id, session_id, customer, email, items, subtotal, shipping, tax, total,
		                   status, payment_status, shipping_address, placed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO NOTHING`,
		o.ID, p.SessionID, o.Customer, o.Email, o.Items,
		p.Subtotal.StringFixed(2), p.Shipping.StringFixed(2), p.Tax.StringFixed(2), p.Total.StringFixed(2),
		string(o.Status), string(o.PaymentStatus), o.ShippingAddress, o.Date,
	)
	if err != nil {
		return false, fmt.Errorf("insert order %s: %w", o.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	for _, l := range p.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, product_id, title, sku, qty, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, l.ProductID, l.Title, l.SKU, l.Quantity, l.UnitPrice.StringFixed(2),
		); err != nil {
			return false, fmt.Errorf("insert line %s/%s: %w", o.ID, l.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// List returns matching orders, newest first.
func (r *Repo) List(ctx context.Context, f Filter) ([]Order, error) {
	rows, err := r.DB.Query(ctx, selectOrder+`
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR strpos(lower(id), lower($2)) > 0
		               OR strpos(lower(customer), lower($2)) > 0
		               OR strpos(lower(email), lower($2)) > 0)
		ORDER BY placed_at DESC`, string(f.Status), f.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) Counts(ctx context.Context) (Counts, error) {
	rows, err := r.DB.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c := CountByStatus(nil)
	for rows.Next() {
		var (
			s string
			n int
		)
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		c[s] = n
		c["all"] += n
	}
	return c, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, selectOrder+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// UpdateStatus moves an order along the status graph, refunding paid orders that are cancelled.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOrder(tx.QueryRow(ctx, selectOrder+` WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	o.Status = to
	o.PaymentStatus = PaymentAfter(o.PaymentStatus, to)
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, payment_status=$3, updated_at=$4 WHERE id=$1`,
		id, string(o.Status), string(o.PaymentStatus), time.Now().UTC()); err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o                     Order
		total, status, paySts string
	)
	if err := row.Scan(&o.ID, &o.Customer, &o.Email, &o.Items, &total, &status, &paySts, &o.Date, &o.ShippingAddress); err != nil {
		return Order{}, err
	}
	t, err := decimal.NewFromString(total)
	if err != nil {
		return Order{}, fmt.Errorf("order %s total %q: %w", o.ID, total, err)
	}
	o.Total = t
	o.Status = Status(status)
	o.PaymentStatus = PaymentStatus(paySts)
	return o, nil
}
