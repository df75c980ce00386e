package payment

import (
	"context"

	"storefront-checkout/internal/domain"
)

// Gateway is the narrow surface of the external payment backend. Tokenization,
// 3-D Secure, and everything else behind these two calls stays opaque.
type Gateway interface {
	// CreateIntent registers an amount to be charged and returns the opaque
	// handle the confirmation call needs.
	CreateIntent(ctx context.Context, in IntentRequest) (*Intent, error)
	// Confirm submits payment details against a previously issued handle.
	Confirm(ctx context.Context, in ConfirmRequest) (*ConfirmResult, error)
}

// IntentRequest describes the charge. Amount is in major currency units with
// two decimal places, matching the gateway's wire contract.
type IntentRequest struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	Items    []domain.CartLine `json:"items"`
}

// Intent is the issued payment handle.
type Intent struct {
	Handle string
}

// Card carries the collected payment details. Values pass straight through to
// the gateway and are never stored.
type Card struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

// BillingDetails accompanies the card on confirmation.
type BillingDetails struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ConfirmRequest submits a confirmation for the given handle.
type ConfirmRequest struct {
	Handle  string
	Card    Card
	Billing BillingDetails
}

// ConfirmResult reports the gateway's verdict. Status is "succeeded" or
// "failed"; Reason is only set on an explicit decline.
type ConfirmResult struct {
	Status string
	Reason string
}

// Succeeded reports whether the gateway confirmed the payment.
func (r *ConfirmResult) Succeeded() bool {
	return r.Status == "succeeded"
}
