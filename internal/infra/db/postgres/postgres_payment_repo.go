package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"snapppay-gateway/internal/domain"
	"snapppay-gateway/internal/domain/model"
	"snapppay-gateway/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, provider, amount, currency, payment_token, pay_url, ref_id, status, created_at, updated_at, paid_at, callback, details`

func (r *paymentRepo) Save(ctx context.Context, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, provider, amount, currency, payment_token, pay_url, ref_id, status, created_at, updated_at, paid_at, callback, details
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  payment_token=$5, pay_url=$6, ref_id=$7, status=$8, updated_at=$10, paid_at=$11, details=$13;`

	_, err := r.pool.Exec(ctx, q, p.ID, p.Provider, p.Amount, p.Currency, p.PaymentToken, p.PayURL, p.RefID, p.Status, p.CreatedAt, p.UpdatedAt, p.PaidAt, p.Callback, p.Details)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	return r.findBy(ctx, "id", id)
}

func (r *paymentRepo) FindByToken(ctx context.Context, paymentToken string) (*model.Payment, error) {
	return r.findBy(ctx, "payment_token", paymentToken)
}

func (r *paymentRepo) findBy(ctx context.Context, column, value string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + column + `=$1;`
	row := r.pool.QueryRow(ctx, q, value)

	p := &model.Payment{}
	err := row.Scan(&p.ID, &p.Provider, &p.Amount, &p.Currency, &p.PaymentToken, &p.PayURL, &p.RefID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt, &p.Callback, &p.Details)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrOperationFailed
	}
	return p, nil
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, refID string) error {
	now := time.Now()
	var paidAt *time.Time
	if status == model.PaymentStatusSucceeded {
		paidAt = &now
	}
	const q = `UPDATE payments SET status=$2, ref_id=COALESCE(NULLIF($3,''), ref_id), updated_at=$4, paid_at=COALESCE($5, paid_at) WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, id, status, refID, now, paidAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
