package payment

import (
	"encoding/json"
	"strings"

	"snapppay-gateway/internal/domain/model"
)

// ToRials converts an amount from the merchant's configured unit into the
// Rials the provider requires on the wire.
func ToRials(amount int64, unit model.CurrencyUnit) int64 {
	if unit == model.CurrencyToman {
		return amount * 10
	}
	return amount
}

// phoneKeys is the lookup order for the payer phone inside invoice details.
var phoneKeys = []string{"phone", "cellphone", "mobile"}

// ResolvePhone picks the payer phone from invoice details and rewrites the
// domestic trunk prefix to the international form. Empty when no detail set.
func ResolvePhone(details map[string]interface{}) string {
	for _, k := range phoneKeys {
		if v, ok := details[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return NormalizePhone(s)
			}
		}
	}
	return ""
}

// NormalizePhone maps "09..." to "+989..."; numbers already in the
// international form pass through untouched.
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "0") {
		return "+98" + phone[1:]
	}
	return phone
}

// NormalizeCartList canonicalizes the raw cartList detail and converts every
// monetary field in it to Rials. A single cart object (detected by a
// top-level shippingAmount key) is wrapped into a one-element list first.
// The input is never mutated; a new structure is returned. Nil or
// unrecognized input yields nil, an empty list stays empty.
func NormalizeCartList(raw interface{}, unit model.CurrencyUnit) []interface{} {
	var carts []interface{}
	switch v := raw.(type) {
	case []interface{}:
		carts = v
	case map[string]interface{}:
		if _, ok := v["shippingAmount"]; ok {
			carts = []interface{}{v}
		} else {
			return nil
		}
	default:
		return nil
	}

	out := make([]interface{}, 0, len(carts))
	for _, c := range carts {
		cart, ok := c.(map[string]interface{})
		if !ok {
			out = append(out, c)
			continue
		}
		out = append(out, normalizeCart(cart, unit))
	}
	return out
}

var cartAmountKeys = []string{"shippingAmount", "taxAmount", "totalAmount"}

func normalizeCart(cart map[string]interface{}, unit model.CurrencyUnit) map[string]interface{} {
	dst := make(map[string]interface{}, len(cart))
	for k, v := range cart {
		dst[k] = v
	}
	for _, k := range cartAmountKeys {
		if n, ok := asInt64(dst[k]); ok {
			dst[k] = ToRials(n, unit)
		}
	}
	if items, ok := dst["cartItems"].([]interface{}); ok {
		normalized := make([]interface{}, 0, len(items))
		for _, it := range items {
			item, ok := it.(map[string]interface{})
			if !ok {
				normalized = append(normalized, it)
				continue
			}
			ni := make(map[string]interface{}, len(item))
			for k, v := range item {
				ni[k] = v
			}
			if n, ok := asInt64(ni["amount"]); ok {
				ni["amount"] = ToRials(n, unit)
			}
			normalized = append(normalized, ni)
		}
		dst["cartItems"] = normalized
	}
	return dst
}

// asInt64 coerces the numeric shapes a details bag can carry: native ints
// from Go callers, float64 and json.Number from decoded JSON.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
