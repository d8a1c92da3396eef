package adapter

import (
	"context"

	"snapppay-gateway/internal/domain/model"
)

// PaymentGateway is the hex port for the installment payment provider.
//
// Purchase creates a provider payment token for the invoice and returns the
// session the remaining operations act on; it also writes the token into the
// invoice's transaction-id slot. Pay yields the redirect URL the payer must
// be sent to with a plain GET. Verify exchanges the token for a Receipt once
// the payer returns. Settle finalizes a verified payment; Revert undoes a
// settled one. None of the operations retry internally.
type PaymentGateway interface {
	Name() string

	Eligible(ctx context.Context, inv *model.Invoice) (*model.EligibilityOffer, error)
	Purchase(ctx context.Context, inv *model.Invoice) (*model.PaymentSession, error)
	Pay(sess *model.PaymentSession) string
	Verify(ctx context.Context, sess *model.PaymentSession) (*model.Receipt, error)
	Settle(ctx context.Context, sess *model.PaymentSession) error
	Revert(ctx context.Context, sess *model.PaymentSession) error
	Status(ctx context.Context, sess *model.PaymentSession) (model.PaymentState, error)
	Cancel(ctx context.Context, sess *model.PaymentSession) error
	Update(ctx context.Context, sess *model.PaymentSession, inv *model.Invoice) error

	// Reauthenticate acquires a fresh bearer token. The token is otherwise
	// fixed for the lifetime of the gateway instance.
	Reauthenticate(ctx context.Context) error
}
