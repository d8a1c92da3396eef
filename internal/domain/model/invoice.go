package model

import "github.com/google/uuid"

// CurrencyUnit is the unit merchant amounts are expressed in. SnappPay only
// accepts Rials on the wire; Toman amounts are converted before transmission.
type CurrencyUnit string

const (
	CurrencyRial  CurrencyUnit = "IRR"
	CurrencyToman CurrencyUnit = "IRT"
)

// Invoice is the merchant-side view of a purchase attempt. Amount is an
// integer in the configured CurrencyUnit. Details is a free-form bag the
// gateway reads optional fields from (phone, discountAmount,
// externalSourceAmount, cartList). TransactionID starts as a unique merchant
// id and is overwritten with the provider payment token once purchase
// succeeds; it is the only invoice field the gateway mutates.
type Invoice struct {
	UUID          string
	Amount        int64
	TransactionID string
	Details       map[string]interface{}
}

// NewInvoice creates an invoice with a fresh merchant transaction id.
func NewInvoice(amount int64, details map[string]interface{}) *Invoice {
	id := uuid.NewString()
	return &Invoice{
		UUID:          id,
		Amount:        amount,
		TransactionID: id,
		Details:       details,
	}
}

// Detail returns a named detail, nil when absent.
func (i *Invoice) Detail(key string) interface{} {
	if i.Details == nil {
		return nil
	}
	return i.Details[key]
}

// PaymentSession is the state produced by a successful purchase and consumed
// by verify and the lifecycle operations.
type PaymentSession struct {
	PaymentToken string
	PayURL       string
}

// Receipt is the confirmation returned by a successful verification.
type Receipt struct {
	ReferenceID string
	Raw         map[string]interface{}
}

// EligibilityOffer is the provider's pre-purchase installment offer,
// returned verbatim to the caller.
type EligibilityOffer struct {
	Raw map[string]interface{}
}

// PaymentState is the provider-reported lifecycle state of a payment token.
type PaymentState string

const (
	StateInProgress PaymentState = "IN_PROGRESS"
	StateVerified   PaymentState = "VERIFY"
	StateSettled    PaymentState = "SETTLE"
	StateReverted   PaymentState = "REVERT"
	StateCancelled  PaymentState = "CANCEL"
	StateFailed     PaymentState = "FAILED"
)
