package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijrafr/expat-services-api/internal/model"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, order_reference, provider, method, status, amount, currency,
	transaction_id, provider_order_id, failure_reason, refunded_amount, created_at, completed_at`

func (r *PaymentRepository) Insert(ctx context.Context, p *model.Payment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO payments (order_reference, provider, method, status, amount, currency, transaction_id, provider_order_id, failure_reason, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		p.OrderReference, p.Provider, p.Method, p.Status, p.Amount, p.Currency,
		p.TransactionID, p.ProviderOrderID, p.FailureReason, p.CompletedAt,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PaymentRepository) LatestByOrder(ctx context.Context, reference string) (*model.Payment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE order_reference = $1 ORDER BY created_at DESC LIMIT 1`, reference)
	return scanPayment(row)
}

func (r *PaymentRepository) ListByOrder(ctx context.Context, reference string) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE order_reference = $1 ORDER BY created_at`, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, provider, transactionID string) (*model.Payment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE provider = $1 AND transaction_id = $2`, provider, transactionID)
	return scanPayment(row)
}

// MarkOutcome records the normalized result of a provider round-trip.
func (r *PaymentRepository) MarkOutcome(ctx context.Context, id, status, transactionID, failureReason string) error {
	var completedAt *time.Time
	if status == model.PaymentStatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $1, transaction_id = $2, failure_reason = $3, completed_at = COALESCE($4, completed_at)
		WHERE id = $5`,
		status, transactionID, failureReason, completedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReplaceProviderOrder points a reused payment row at a freshly created
// provider order.
func (r *PaymentRepository) ReplaceProviderOrder(ctx context.Context, id, providerOrderID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET transaction_id = $1, provider_order_id = $1 WHERE id = $2`,
		providerOrderID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PaymentRepository) RecordRefund(ctx context.Context, provider, transactionID string, amount float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments
		SET refunded_amount = refunded_amount + $1,
		    status = CASE WHEN refunded_amount + $1 >= amount THEN 'refunded' ELSE status END
		WHERE provider = $2 AND transaction_id = $3`,
		amount, provider, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.OrderReference, &p.Provider, &p.Method, &p.Status,
		&p.Amount, &p.Currency, &p.TransactionID, &p.ProviderOrderID, &p.FailureReason,
		&p.RefundedAmount, &p.CreatedAt, &p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
