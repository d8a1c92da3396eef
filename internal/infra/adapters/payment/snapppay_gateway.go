// File: internal/infra/adapters/payment/snapppay_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"snapppay-gateway/internal/config"
	"snapppay-gateway/internal/domain"
	"snapppay-gateway/internal/domain/model"
	"snapppay-gateway/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*SnappPayGateway)(nil)

const (
	oauthPath    = "/api/online/v1/oauth/token"
	eligiblePath = "/api/online/offer/v1/eligible"
	// token creation and verification share this path; the bodies differ.
	tokenPath  = "/api/online/payment/v1/token"
	settlePath = "/api/online/payment/v1/settle"
	revertPath = "/api/online/payment/v1/revert"
	statusPath = "/api/online/payment/v1/status"
	cancelPath = "/api/online/payment/v1/cancel"
	updatePath = "/api/online/payment/v1/update"
)

const (
	oauthScope        = "online-merchant"
	installmentMethod = "INSTALLMENT"
)

// Default provider-facing messages, surfaced when the provider sends none.
const (
	msgAuthFailed     = "خطا در هنگام احراز هویت."
	msgPurchaseFailed = "درخواست پرداخت با خطا مواجه شد."
	msgInvalidPayment = "پرداخت مورد تایید درگاه نیست."
	msgAmountRequired = "amount is required"
)

// envelope is the provider's uniform response body.
type envelope struct {
	Successful *bool                  `json:"successful"`
	Response   map[string]interface{} `json:"response"`
	ErrorData  struct {
		Message string `json:"message"`
	} `json:"errorData"`
}

// rejected reports whether the provider refused the operation: a non-200
// status, or a successful flag that is explicitly false.
func (e *envelope) rejected(status int) bool {
	return status != http.StatusOK || (e.Successful != nil && !*e.Successful)
}

func (e *envelope) message(fallback string) string {
	if e.ErrorData.Message != "" {
		return e.ErrorData.Message
	}
	return fallback
}

// SnappPayGateway drives the SnappPay installment protocol. The bearer token
// is acquired once at construction and fixed for the instance's lifetime;
// call Reauthenticate for long-lived instances. The gateway never retries.
type SnappPayGateway struct {
	cfg    config.SnappPayConfig
	unit   model.CurrencyUnit
	client *http.Client
	token  string
}

// NewSnappPayGateway authenticates against the provider and returns a ready
// gateway. A nil client gets a default with a 15s timeout; a shared gateway
// instance is only as concurrency-safe as the client passed in.
func NewSnappPayGateway(ctx context.Context, cfg config.SnappPayConfig, client *http.Client) (*SnappPayGateway, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	g := &SnappPayGateway{
		cfg:    cfg,
		unit:   model.CurrencyUnit(cfg.Currency),
		client: client,
	}
	if err := g.Reauthenticate(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *SnappPayGateway) Name() string { return "snapppay" }

// Reauthenticate performs the password-grant exchange and replaces the
// cached bearer token.
func (g *SnappPayGateway) Reauthenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("scope", oauthScope)
	form.Set("username", g.cfg.Username)
	form.Set("password", g.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+oauthPath, strings.NewReader(form.Encode()))
	if err != nil {
		return &domain.AuthenticationFailedError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.cfg.ClientID, g.cfg.ClientSecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return &domain.AuthenticationFailedError{Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.AuthenticationFailedError{Message: msgAuthFailed}
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return &domain.AuthenticationFailedError{Message: msgAuthFailed}
	}
	if out.AccessToken == "" {
		return &domain.AuthenticationFailedError{Message: msgAuthFailed}
	}
	g.token = out.AccessToken
	return nil
}

// Eligible asks whether the amount qualifies for installment payment. The
// decoded offer is returned verbatim.
func (g *SnappPayGateway) Eligible(ctx context.Context, inv *model.Invoice) (*model.EligibilityOffer, error) {
	if inv == nil || inv.Amount <= 0 {
		return nil, &domain.PurchaseFailedError{Message: msgAmountRequired}
	}
	q := url.Values{}
	q.Set("amount", strconv.FormatInt(ToRials(inv.Amount, g.unit), 10))

	status, env, err := g.send(ctx, http.MethodGet, eligiblePath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &domain.InvalidPaymentError{Message: err.Error()}
	}
	if status != http.StatusOK {
		return nil, &domain.InvalidPaymentError{Message: env.message(msgInvalidPayment), StatusCode: status}
	}
	return &model.EligibilityOffer{Raw: env.Response}, nil
}

// Purchase creates the provider payment token. On success the token is
// written into the invoice's transaction-id slot and the returned session
// carries the token and the hosted-flow redirect URL.
func (g *SnappPayGateway) Purchase(ctx context.Context, inv *model.Invoice) (*model.PaymentSession, error) {
	body := map[string]interface{}{
		"amount":               ToRials(inv.Amount, g.unit),
		"mobile":               ResolvePhone(inv.Details),
		"paymentMethodTypeDto": installmentMethod,
		"transactionId":        inv.UUID,
		"returnURL":            g.cfg.CallbackURL,
	}
	if d, ok := asInt64(inv.Detail("discountAmount")); ok {
		body["discountAmount"] = ToRials(d, g.unit)
	}
	if v := inv.Detail("externalSourceAmount"); v != nil {
		body["externalSourceAmount"] = v
	}
	if carts := NormalizeCartList(inv.Detail("cartList"), g.unit); carts != nil {
		body["cartList"] = carts
	}

	status, env, err := g.send(ctx, http.MethodPost, tokenPath, body)
	if err != nil {
		return nil, &domain.PurchaseFailedError{Message: err.Error()}
	}
	if env.rejected(status) {
		return nil, &domain.PurchaseFailedError{Message: env.message(msgPurchaseFailed)}
	}
	token, _ := env.Response["paymentToken"].(string)
	payURL, _ := env.Response["paymentPageUrl"].(string)
	if token == "" || payURL == "" {
		return nil, &domain.PurchaseFailedError{Message: msgPurchaseFailed}
	}
	inv.TransactionID = token
	return &model.PaymentSession{PaymentToken: token, PayURL: payURL}, nil
}

// Pay returns the redirect target; the payer is handed off with a plain GET.
func (g *SnappPayGateway) Pay(sess *model.PaymentSession) string {
	return sess.PayURL
}

// Verify exchanges the payment token for the provider's confirmation.
func (g *SnappPayGateway) Verify(ctx context.Context, sess *model.PaymentSession) (*model.Receipt, error) {
	env, err := g.tokenOp(ctx, tokenPath, sess)
	if err != nil {
		return nil, err
	}
	ref, _ := env.Response["transactionId"].(string)
	if ref == "" {
		ref = sess.PaymentToken
	}
	return &model.Receipt{ReferenceID: ref, Raw: env.Response}, nil
}

// Settle finalizes a verified payment.
func (g *SnappPayGateway) Settle(ctx context.Context, sess *model.PaymentSession) error {
	_, err := g.tokenOp(ctx, settlePath, sess)
	return err
}

// Revert undoes a settled payment.
func (g *SnappPayGateway) Revert(ctx context.Context, sess *model.PaymentSession) error {
	_, err := g.tokenOp(ctx, revertPath, sess)
	return err
}

// Status reports the provider-side lifecycle state of the payment token.
// Unknown status strings pass through untyped rather than erroring.
func (g *SnappPayGateway) Status(ctx context.Context, sess *model.PaymentSession) (model.PaymentState, error) {
	env, err := g.tokenOp(ctx, statusPath, sess)
	if err != nil {
		return "", err
	}
	s, _ := env.Response["status"].(string)
	return model.PaymentState(s), nil
}

// Cancel abandons a payment token before settlement.
func (g *SnappPayGateway) Cancel(ctx context.Context, sess *model.PaymentSession) error {
	_, err := g.tokenOp(ctx, cancelPath, sess)
	return err
}

// Update re-sends the order content for an open payment token, for example
// after the cart changed between purchase and verification.
func (g *SnappPayGateway) Update(ctx context.Context, sess *model.PaymentSession, inv *model.Invoice) error {
	body := map[string]interface{}{
		"paymentToken": sess.PaymentToken,
		"amount":       ToRials(inv.Amount, g.unit),
	}
	if d, ok := asInt64(inv.Detail("discountAmount")); ok {
		body["discountAmount"] = ToRials(d, g.unit)
	}
	if v := inv.Detail("externalSourceAmount"); v != nil {
		body["externalSourceAmount"] = v
	}
	if carts := NormalizeCartList(inv.Detail("cartList"), g.unit); carts != nil {
		body["cartList"] = carts
	}

	status, env, err := g.send(ctx, http.MethodPost, updatePath, body)
	if err != nil {
		return &domain.InvalidPaymentError{Message: err.Error()}
	}
	if env.rejected(status) {
		return g.classify(status, env)
	}
	return nil
}

// tokenOp runs a token-keyed POST and classifies the envelope.
func (g *SnappPayGateway) tokenOp(ctx context.Context, path string, sess *model.PaymentSession) (*envelope, error) {
	body := map[string]interface{}{"paymentToken": sess.PaymentToken}
	status, env, err := g.send(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, &domain.InvalidPaymentError{Message: err.Error()}
	}
	if env.rejected(status) {
		return nil, g.classify(status, env)
	}
	return env, nil
}

func (g *SnappPayGateway) classify(status int, env *envelope) error {
	code := 0
	if status != http.StatusOK {
		code = status
	}
	return &domain.InvalidPaymentError{Message: env.message(msgInvalidPayment), StatusCode: code}
}

// send issues one bearer-authorized call and decodes the envelope. Non-2xx
// statuses are not an error here; callers inspect the status explicitly so
// provider error payloads stay readable.
func (g *SnappPayGateway) send(ctx context.Context, method, path string, body interface{}) (int, *envelope, error) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, &env, nil
}
