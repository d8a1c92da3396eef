package payment

import (
	"context"
	"fmt"
	"sync"

	"snapppay-gateway/internal/domain/model"
	"snapppay-gateway/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway to use in tests.
type NoopPaymentGateway struct {
	mu     sync.Mutex
	seq    int64
	tokens map[string]model.PaymentState // payment token -> state
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{tokens: make(map[string]model.PaymentState)}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

func (g *NoopPaymentGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopPaymentGateway) Eligible(ctx context.Context, inv *model.Invoice) (*model.EligibilityOffer, error) {
	if inv == nil || inv.Amount <= 0 {
		return nil, fmt.Errorf("noop: amount is required")
	}
	return &model.EligibilityOffer{Raw: map[string]interface{}{"eligible": true}}, nil
}

func (g *NoopPaymentGateway) Purchase(ctx context.Context, inv *model.Invoice) (*model.PaymentSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	token := g.next()
	g.tokens[token] = model.StateInProgress
	inv.TransactionID = token
	return &model.PaymentSession{
		PaymentToken: token,
		PayURL:       "https://example.test/pay/" + token,
	}, nil
}

func (g *NoopPaymentGateway) Pay(sess *model.PaymentSession) string { return sess.PayURL }

func (g *NoopPaymentGateway) Verify(ctx context.Context, sess *model.PaymentSession) (*model.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.tokens[sess.PaymentToken]; !ok {
		return nil, fmt.Errorf("noop: payment token not found")
	}
	g.tokens[sess.PaymentToken] = model.StateVerified
	return &model.Receipt{ReferenceID: "ref-" + sess.PaymentToken}, nil
}

func (g *NoopPaymentGateway) Settle(ctx context.Context, sess *model.PaymentSession) error {
	return g.transition(sess, model.StateSettled)
}

func (g *NoopPaymentGateway) Revert(ctx context.Context, sess *model.PaymentSession) error {
	return g.transition(sess, model.StateReverted)
}

func (g *NoopPaymentGateway) Cancel(ctx context.Context, sess *model.PaymentSession) error {
	return g.transition(sess, model.StateCancelled)
}

func (g *NoopPaymentGateway) Status(ctx context.Context, sess *model.PaymentSession) (model.PaymentState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.tokens[sess.PaymentToken]
	if !ok {
		return "", fmt.Errorf("noop: payment token not found")
	}
	return s, nil
}

func (g *NoopPaymentGateway) Update(ctx context.Context, sess *model.PaymentSession, inv *model.Invoice) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.tokens[sess.PaymentToken]; !ok {
		return fmt.Errorf("noop: payment token not found")
	}
	return nil
}

func (g *NoopPaymentGateway) Reauthenticate(ctx context.Context) error { return nil }

func (g *NoopPaymentGateway) transition(sess *model.PaymentSession, to model.PaymentState) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.tokens[sess.PaymentToken]; !ok {
		return fmt.Errorf("noop: payment token not found")
	}
	g.tokens[sess.PaymentToken] = to
	return nil
}
