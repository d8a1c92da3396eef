//go:build !integration

package model_test

import (
	"testing"

	"snapppay-gateway/internal/domain/model"
)

func TestNewInvoice(t *testing.T) {
	inv := model.NewInvoice(1500, map[string]interface{}{"phone": "0901"})
	if inv.UUID == "" {
		t.Fatal("expected a generated uuid")
	}
	if inv.TransactionID != inv.UUID {
		t.Errorf("transaction id should start as the merchant id, got %q", inv.TransactionID)
	}
	if inv.Amount != 1500 {
		t.Errorf("amount = %d", inv.Amount)
	}
}

func TestInvoice_Detail(t *testing.T) {
	inv := model.NewInvoice(1, map[string]interface{}{"phone": "0901"})
	if inv.Detail("phone") != "0901" {
		t.Errorf("detail = %v", inv.Detail("phone"))
	}
	if inv.Detail("missing") != nil {
		t.Error("missing detail must be nil")
	}

	empty := &model.Invoice{}
	if empty.Detail("phone") != nil {
		t.Error("nil details bag must be nil-safe")
	}
}
