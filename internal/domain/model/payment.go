package model

import "time"

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated" // token created on provider side
	PaymentStatusPending   PaymentStatus = "pending"   // payer redirected; awaiting verification
	PaymentStatusSucceeded PaymentStatus = "succeeded" // verified and settled at provider
	PaymentStatusFailed    PaymentStatus = "failed"    // verification failed or provider rejected
	PaymentStatusCancelled PaymentStatus = "cancelled" // cancelled before settlement
	PaymentStatusReverted  PaymentStatus = "reverted"  // settled then reverted
)

// Payment records the external payment intent/transaction.
type Payment struct {
	ID           string        // UUID, also the merchant transaction id sent on purchase
	Provider     string        // e.g. "snapppay"
	Amount       int64         // stored in Rials (integer), to avoid float errors
	Currency     string        // "IRR"
	PaymentToken string        // provider token returned by purchase
	PayURL       string        // provider hosted-flow redirect target
	RefID        string        // provider reference id after verification (if success)
	Status       PaymentStatus // see constants above
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PaidAt       *time.Time             // set when succeeded
	Callback     string                 // the callback URL we used for provider
	Details      map[string]interface{} // invoice details (serialized in DB as JSONB)
}
