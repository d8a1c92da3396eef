// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"snapppay-gateway/internal/domain/model"
	"snapppay-gateway/internal/domain/ports/adapter"
	"snapppay-gateway/internal/domain/ports/repository"
	"snapppay-gateway/internal/infra/metrics"
	"snapppay-gateway/internal/infra/redis"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CheckEligibility asks the provider whether the amount qualifies for
	// installment payment.
	CheckEligibility(ctx context.Context, amount int64) (*model.EligibilityOffer, error)
	// Initiate creates a provider payment token, persists the pending payment
	// and returns it together with the redirect URL for the payer.
	Initiate(ctx context.Context, amount int64, details map[string]interface{}) (*model.Payment, string, error)
	// Confirm verifies and settles the payment identified by the provider
	// token. Idempotent: a payment already succeeded is returned as-is.
	Confirm(ctx context.Context, paymentToken string) (*model.Payment, error)
	// RecordFailure marks a payment failed after the provider reported an
	// unsuccessful hosted-flow outcome.
	RecordFailure(ctx context.Context, paymentToken string) (*model.Payment, error)
	// CancelPayment abandons an unsettled payment token.
	CancelPayment(ctx context.Context, paymentToken string) (*model.Payment, error)
	// RevertPayment undoes a settled payment.
	RevertPayment(ctx context.Context, paymentToken string) (*model.Payment, error)
	// StatusOf reports the provider-side state of the payment token.
	StatusOf(ctx context.Context, paymentToken string) (model.PaymentState, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	gateway  adapter.PaymentGateway
	locker   redis.Locker
	currency string
	callback string
	log      *zerolog.Logger
}

func NewPaymentUseCase(payments repository.PaymentRepository, gateway adapter.PaymentGateway, locker redis.Locker, currency, callbackURL string, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{
		payments: payments,
		gateway:  gateway,
		locker:   locker,
		currency: currency,
		callback: callbackURL,
		log:      logger,
	}
}

func (u *paymentUC) CheckEligibility(ctx context.Context, amount int64) (*model.EligibilityOffer, error) {
	inv := &model.Invoice{Amount: amount}
	start := time.Now()
	offer, err := u.gateway.Eligible(ctx, inv)
	metrics.ObserveGatewayCall("eligible", start, err)
	if err != nil {
		u.log.Warn().Err(err).Int64("amount", amount).Msg("eligibility check rejected")
		return nil, err
	}
	return offer, nil
}

func (u *paymentUC) Initiate(ctx context.Context, amount int64, details map[string]interface{}) (*model.Payment, string, error) {
	inv := model.NewInvoice(amount, details)

	start := time.Now()
	sess, err := u.gateway.Purchase(ctx, inv)
	metrics.ObserveGatewayCall("purchase", start, err)
	if err != nil {
		u.log.Error().Err(err).Str("invoice", inv.UUID).Msg("purchase failed")
		return nil, "", err
	}

	now := time.Now()
	p := &model.Payment{
		ID:           inv.UUID,
		Provider:     u.gateway.Name(),
		Amount:       amount,
		Currency:     u.currency,
		PaymentToken: sess.PaymentToken,
		PayURL:       sess.PayURL,
		Status:       model.PaymentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Callback:     u.callback,
		Details:      details,
	}
	if err := u.payments.Save(ctx, p); err != nil {
		return nil, "", err
	}
	metrics.IncPayment(string(model.PaymentStatusPending))
	u.log.Info().Str("payment_id", p.ID).Str("token", sess.PaymentToken).Msg("payment initiated")
	return p, u.gateway.Pay(sess), nil
}

func (u *paymentUC) Confirm(ctx context.Context, paymentToken string) (*model.Payment, error) {
	lockKey := "payment:confirm:" + paymentToken
	lockToken, err := u.locker.TryLock(ctx, lockKey, 30*time.Second)
	if err != nil {
		return nil, err
	}
	defer func() { _ = u.locker.Unlock(ctx, lockKey, lockToken) }()

	p, err := u.payments.FindByToken(ctx, paymentToken)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PaymentStatusSucceeded {
		return p, nil
	}
	sess := &model.PaymentSession{PaymentToken: p.PaymentToken, PayURL: p.PayURL}

	start := time.Now()
	receipt, err := u.gateway.Verify(ctx, sess)
	metrics.ObserveGatewayCall("verify", start, err)
	if err != nil {
		u.log.Warn().Err(err).Str("payment_id", p.ID).Msg("verification rejected")
		u.markFailed(ctx, p)
		return nil, err
	}

	start = time.Now()
	err = u.gateway.Settle(ctx, sess)
	metrics.ObserveGatewayCall("settle", start, err)
	if err != nil {
		// Verified but not settled: leave pending so a later callback can
		// settle without re-creating provider state.
		u.log.Error().Err(err).Str("payment_id", p.ID).Msg("settle failed after verify")
		return nil, err
	}

	if err := u.payments.UpdateStatus(ctx, p.ID, model.PaymentStatusSucceeded, receipt.ReferenceID); err != nil {
		return nil, err
	}
	p.Status = model.PaymentStatusSucceeded
	p.RefID = receipt.ReferenceID
	metrics.IncPayment(string(model.PaymentStatusSucceeded))
	metrics.AddPaymentRevenue(p.Currency, p.Amount)
	u.log.Info().Str("payment_id", p.ID).Str("ref_id", p.RefID).Msg("payment confirmed")
	return p, nil
}

func (u *paymentUC) RecordFailure(ctx context.Context, paymentToken string) (*model.Payment, error) {
	p, err := u.payments.FindByToken(ctx, paymentToken)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PaymentStatusSucceeded {
		// Never demote a confirmed payment on a stray callback.
		return p, nil
	}
	u.markFailed(ctx, p)
	return p, nil
}

func (u *paymentUC) CancelPayment(ctx context.Context, paymentToken string) (*model.Payment, error) {
	return u.lifecycle(ctx, paymentToken, "cancel", model.PaymentStatusCancelled, u.gateway.Cancel)
}

func (u *paymentUC) RevertPayment(ctx context.Context, paymentToken string) (*model.Payment, error) {
	return u.lifecycle(ctx, paymentToken, "revert", model.PaymentStatusReverted, u.gateway.Revert)
}

func (u *paymentUC) StatusOf(ctx context.Context, paymentToken string) (model.PaymentState, error) {
	p, err := u.payments.FindByToken(ctx, paymentToken)
	if err != nil {
		return "", err
	}
	sess := &model.PaymentSession{PaymentToken: p.PaymentToken, PayURL: p.PayURL}
	start := time.Now()
	state, err := u.gateway.Status(ctx, sess)
	metrics.ObserveGatewayCall("status", start, err)
	return state, err
}

func (u *paymentUC) lifecycle(ctx context.Context, paymentToken, op string, to model.PaymentStatus, call func(context.Context, *model.PaymentSession) error) (*model.Payment, error) {
	p, err := u.payments.FindByToken(ctx, paymentToken)
	if err != nil {
		return nil, err
	}
	sess := &model.PaymentSession{PaymentToken: p.PaymentToken, PayURL: p.PayURL}
	start := time.Now()
	err = call(ctx, sess)
	metrics.ObserveGatewayCall(op, start, err)
	if err != nil {
		u.log.Warn().Err(err).Str("payment_id", p.ID).Str("op", op).Msg("lifecycle operation rejected")
		return nil, err
	}
	if err := u.payments.UpdateStatus(ctx, p.ID, to, ""); err != nil {
		return nil, err
	}
	p.Status = to
	metrics.IncPayment(string(to))
	return p, nil
}

func (u *paymentUC) markFailed(ctx context.Context, p *model.Payment) {
	if err := u.payments.UpdateStatus(ctx, p.ID, model.PaymentStatusFailed, ""); err != nil {
		u.log.Error().Err(err).Str("payment_id", p.ID).Msg("could not mark payment failed")
		return
	}
	p.Status = model.PaymentStatusFailed
	metrics.IncPayment(string(model.PaymentStatusFailed))
}
