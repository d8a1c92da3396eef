//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"snapppay-gateway/internal/domain"
	"snapppay-gateway/internal/domain/model"
	"snapppay-gateway/internal/domain/ports/adapter"
	"snapppay-gateway/internal/domain/ports/repository"
	"snapppay-gateway/internal/infra/redis"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- MockPaymentRepo ---

type MockPaymentRepo struct {
	mu       sync.Mutex
	byID     map[string]*model.Payment
	SaveFunc func(ctx context.Context, p *model.Payment) error
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{byID: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, p *model.Payment) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) FindByToken(ctx context.Context, token string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.PaymentToken == token {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, refID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	if refID != "" {
		p.RefID = refID
	}
	p.UpdatedAt = time.Now()
	return nil
}

// --- MockPaymentGateway ---

type MockPaymentGateway struct {
	NameVal string

	EligibleFunc func(ctx context.Context, inv *model.Invoice) (*model.EligibilityOffer, error)
	PurchaseFunc func(ctx context.Context, inv *model.Invoice) (*model.PaymentSession, error)
	VerifyFunc   func(ctx context.Context, sess *model.PaymentSession) (*model.Receipt, error)
	SettleFunc   func(ctx context.Context, sess *model.PaymentSession) error
	RevertFunc   func(ctx context.Context, sess *model.PaymentSession) error
	StatusFunc   func(ctx context.Context, sess *model.PaymentSession) (model.PaymentState, error)
	CancelFunc   func(ctx context.Context, sess *model.PaymentSession) error
	UpdateFunc   func(ctx context.Context, sess *model.PaymentSession, inv *model.Invoice) error
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

func (m *MockPaymentGateway) Eligible(ctx context.Context, inv *model.Invoice) (*model.EligibilityOffer, error) {
	if m.EligibleFunc != nil {
		return m.EligibleFunc(ctx, inv)
	}
	return &model.EligibilityOffer{}, nil
}

func (m *MockPaymentGateway) Purchase(ctx context.Context, inv *model.Invoice) (*model.PaymentSession, error) {
	if m.PurchaseFunc != nil {
		return m.PurchaseFunc(ctx, inv)
	}
	token := "mock-" + inv.UUID
	inv.TransactionID = token
	return &model.PaymentSession{PaymentToken: token, PayURL: "https://example.test/pay/" + token}, nil
}

func (m *MockPaymentGateway) Pay(sess *model.PaymentSession) string { return sess.PayURL }

func (m *MockPaymentGateway) Verify(ctx context.Context, sess *model.PaymentSession) (*model.Receipt, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, sess)
	}
	return &model.Receipt{ReferenceID: "ref-" + sess.PaymentToken}, nil
}

func (m *MockPaymentGateway) Settle(ctx context.Context, sess *model.PaymentSession) error {
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, sess)
	}
	return nil
}

func (m *MockPaymentGateway) Revert(ctx context.Context, sess *model.PaymentSession) error {
	if m.RevertFunc != nil {
		return m.RevertFunc(ctx, sess)
	}
	return nil
}

func (m *MockPaymentGateway) Status(ctx context.Context, sess *model.PaymentSession) (model.PaymentState, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, sess)
	}
	return model.StateInProgress, nil
}

func (m *MockPaymentGateway) Cancel(ctx context.Context, sess *model.PaymentSession) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, sess)
	}
	return nil
}

func (m *MockPaymentGateway) Update(ctx context.Context, sess *model.PaymentSession, inv *model.Invoice) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sess, inv)
	}
	return nil
}

func (m *MockPaymentGateway) Reauthenticate(ctx context.Context) error { return nil }

// --- MockLocker ---

type MockLocker struct {
	mu   sync.Mutex
	held map[string]bool

	TryLockErr error
}

var _ redis.Locker = (*MockLocker)(nil)

func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]bool)}
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.TryLockErr != nil {
		return "", m.TryLockErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] {
		return "", domain.ErrConfirmInProgress
	}
	m.held[key] = true
	return fmt.Sprintf("lock-%s", key), nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}
