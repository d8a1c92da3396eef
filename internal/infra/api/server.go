package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"snapppay-gateway/internal/domain"
	"snapppay-gateway/internal/usecase"
)

// Server wires the provider callback route to PaymentUseCase.
type Server struct {
	payUC     usecase.PaymentUseCase
	cbPath    string
	returnURL string
	log       *zerolog.Logger
}

// NewServer constructs the HTTP server layer for callbacks.
// callbackPath must match the path portion of payment.snapppay.callback_url
// in config. returnURL, when set, is offered to the payer after the result.
func NewServer(payUC usecase.PaymentUseCase, callbackPath, returnURL string, logger *zerolog.Logger) *Server {
	if callbackPath == "" {
		callbackPath = "/api/v1/payment/callback"
	}
	return &Server{payUC: payUC, cbPath: callbackPath, returnURL: returnURL, log: logger}
}

// Register attaches handlers to the provided mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc(s.cbPath, s.handleCallback)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()
	token := q.Get("paymentToken")
	state := q.Get("state")

	if token == "" {
		s.renderHTML(w, http.StatusBadRequest, false, "missing paymentToken")
		return
	}

	// Provider reports an unsuccessful hosted flow -> record and stop.
	if state != "OK" {
		if _, err := s.payUC.RecordFailure(ctx, token); err != nil {
			s.log.Warn().Err(err).Str("token", token).Msg("could not record failed payment")
		}
		s.renderHTML(w, http.StatusOK, false, fmt.Sprintf("payment not approved (state=%s)", state))
		return
	}

	// Provider says OK -> verify & settle (idempotent inside UC).
	p, err := s.payUC.Confirm(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrConfirmInProgress) {
			s.renderHTML(w, http.StatusConflict, false, "payment is being confirmed, please retry shortly")
			return
		}
		s.renderHTML(w, http.StatusBadRequest, false, fmt.Sprintf("verification failed: %v", err))
		return
	}
	s.renderHTML(w, http.StatusOK, true, fmt.Sprintf("payment confirmed, reference %s", p.RefID))
}

var page = template.Must(template.New("cb").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Payment {{if .OK}}Success{{else}}Result{{end}}</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:560px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.ok{color:#057a55} .fail{color:#b00020}
.btn{display:inline-block;margin-top:16px;padding:10px 16px;border-radius:8px;border:1px solid #888;text-decoration:none}
</style>
</head>
<body>
<div class="card">
  <h2 class="{{if .OK}}ok{{else}}fail{{end}}">{{if .OK}}✅ Payment Successful{{else}}⚠️ Payment Processed{{end}}</h2>
  <p>{{.Msg}}</p>
  {{if .ReturnURL}}
    <a class="btn" href="{{.ReturnURL}}">Back to the store</a>
  {{end}}
</div>
</body>
</html>`))

func (s *Server) renderHTML(w http.ResponseWriter, code int, ok bool, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = page.Execute(w, struct {
		OK        bool
		Msg       string
		ReturnURL string
	}{
		OK:        ok,
		Msg:       msg,
		ReturnURL: s.returnURL,
	})
}
