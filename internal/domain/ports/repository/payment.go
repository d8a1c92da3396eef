package repository

import (
	"context"

	"snapppay-gateway/internal/domain/model"
)

// PaymentRepository persists payment records keyed by id and provider token.
type PaymentRepository interface {
	Save(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByToken(ctx context.Context, paymentToken string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, refID string) error
}
