package domain

// CheckoutStatus tracks progress from intent creation to payment confirmation.
type CheckoutStatus string

const (
	StatusIdle           CheckoutStatus = "Idle"
	StatusAwaitingIntent CheckoutStatus = "AwaitingIntent"
	StatusReadyToPay     CheckoutStatus = "ReadyToPay"
	StatusSubmitting     CheckoutStatus = "Submitting"
	StatusSucceeded      CheckoutStatus = "Succeeded"
	StatusFailed         CheckoutStatus = "Failed"
)

// Terminal reports whether the status ends the current payment attempt.
func (s CheckoutStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CheckoutSession is the orchestration state for one cart. The intent handle
// is only valid for the amount it was issued against; any later cart change
// invalidates it.
type CheckoutSession struct {
	SessionID    string         `json:"sessionId"`
	Status       CheckoutStatus `json:"status"`
	IntentHandle string         `json:"-"`
	AmountCents  int64          `json:"amountCents"`
	Currency     string         `json:"currency"`
	FailReason   string         `json:"failReason,omitempty"`

	// Seq increments on every cart change; intent responses carrying an
	// older value are discarded.
	Seq uint64 `json:"-"`
}
