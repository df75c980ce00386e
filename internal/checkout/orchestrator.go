package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/payment"
)

// SuccessRoute is where a confirmed payment redirects, exactly once.
const SuccessRoute = "/success"

// failReasonIntent is shown when intent creation fails; the detail is logged.
const failReasonIntent = "Failed to initialize payment. Please try again."

// failReasonUnexpected is shown on transport or malformed-gateway failures
// during confirmation; the detail is logged, never surfaced.
const failReasonUnexpected = "unexpected"

// Orchestrator drives the checkout flow for every session:
// Idle -> AwaitingIntent -> ReadyToPay -> Submitting -> Succeeded/Failed.
// Cart changes arrive as explicit events, never as ambient reactivity, so the
// handle-invalidation rule stays auditable.
type Orchestrator struct {
	gateway  gateway
	currency string
	logger   *log.Logger

	mu       sync.Mutex
	sessions map[string]*domain.CheckoutSession
}

type gateway interface {
	CreateIntent(ctx context.Context, in payment.IntentRequest) (*payment.Intent, error)
	Confirm(ctx context.Context, in payment.ConfirmRequest) (*payment.ConfirmResult, error)
}

func New(gw payment.Gateway, currency string, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		gateway:  gw,
		currency: currency,
		logger:   logger,
		sessions: make(map[string]*domain.CheckoutSession),
	}
}

// Outcome is the result of a payment submission. Redirect is set only on the
// transition into Succeeded, so the success view is signaled exactly once.
type Outcome struct {
	Session  domain.CheckoutSession
	Redirect string
}

// Session returns a snapshot of the session's checkout state. A session that
// never saw a cart is Idle.
func (o *Orchestrator) Session(sessionID string) domain.CheckoutSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.sessions[sessionID]
	if !ok {
		return domain.CheckoutSession{SessionID: sessionID, Status: domain.StatusIdle, Currency: o.currency}
	}
	return *sess
}

// Discard drops the session's checkout state, as when the user navigates
// away. The external handle is left to the gateway's own expiry.
func (o *Orchestrator) Discard(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, sessionID)
}

// CartChanged is the explicit event fired after every cart mutation. An empty
// cart resets the session to Idle. A non-empty cart invalidates any issued
// handle and re-requests an intent for the current total: a payment must
// never be confirmed against a handle whose amount no longer matches.
func (o *Orchestrator) CartChanged(ctx context.Context, cart *domain.Cart) (domain.CheckoutSession, error) {
	o.mu.Lock()
	sess := o.session(cart.SessionID)

	if sess.Status == domain.StatusSubmitting {
		snapshot := *sess
		o.mu.Unlock()
		return snapshot, domain.Validation("payment confirmation in flight")
	}

	if cart.IsEmpty() {
		sess.Status = domain.StatusIdle
		sess.IntentHandle = ""
		sess.AmountCents = 0
		sess.FailReason = ""
		sess.Seq++
		snapshot := *sess
		o.mu.Unlock()
		return snapshot, nil
	}

	return o.requestIntent(ctx, sess, cart)
}

// Retry re-enters AwaitingIntent from a failed attempt, requesting a fresh
// handle for the preserved cart.
func (o *Orchestrator) Retry(ctx context.Context, cart *domain.Cart) (domain.CheckoutSession, error) {
	o.mu.Lock()
	sess := o.session(cart.SessionID)

	if sess.Status != domain.StatusFailed {
		snapshot := *sess
		o.mu.Unlock()
		return snapshot, domain.Validation("retry only allowed after a failed attempt, status is %s", sess.Status)
	}
	if cart.IsEmpty() {
		snapshot := *sess
		o.mu.Unlock()
		return snapshot, domain.Validation("cart is empty")
	}

	return o.requestIntent(ctx, sess, cart)
}

// requestIntent is entered holding the lock and releases it around the
// gateway call. The sequence number captured before the call detects cart
// changes that happened while the request was in flight; a stale response is
// discarded instead of overwriting the fresher state.
func (o *Orchestrator) requestIntent(ctx context.Context, sess *domain.CheckoutSession, cart *domain.Cart) (domain.CheckoutSession, error) {
	sess.Seq++
	seq := sess.Seq
	sess.Status = domain.StatusAwaitingIntent
	sess.IntentHandle = ""
	sess.AmountCents = cart.TotalCents()
	sess.FailReason = ""

	req := payment.IntentRequest{
		Amount:   cart.TotalAmount(),
		Currency: o.currency,
		Items:    append([]domain.CartLine(nil), cart.Lines...),
	}
	o.mu.Unlock()

	intent, err := o.gateway.CreateIntent(ctx, req)

	o.mu.Lock()
	defer o.mu.Unlock()
	if sess.Seq != seq {
		o.logger.Printf("checkout: session=%s discarding stale intent response seq=%d current=%d", sess.SessionID, seq, sess.Seq)
		return *sess, nil
	}
	if err != nil {
		o.logger.Printf("checkout: session=%s intent request failed: %v", sess.SessionID, err)
		sess.Status = domain.StatusFailed
		sess.FailReason = failReasonIntent
		return *sess, nil
	}

	sess.Status = domain.StatusReadyToPay
	sess.IntentHandle = intent.Handle
	return *sess, nil
}

// SubmitPayment confirms the issued intent with the collected payment
// details. It is only legal in ReadyToPay; any other state is a programming
// contract violation and fails fast without a network call. Gateway declines
// and transport failures are absorbed into the Failed state; only contract
// violations surface as errors.
func (o *Orchestrator) SubmitPayment(ctx context.Context, sessionID string, card payment.Card, billing payment.BillingDetails) (*Outcome, error) {
	o.mu.Lock()
	sess, ok := o.sessions[sessionID]
	if !ok {
		o.mu.Unlock()
		return nil, domain.Validation("no checkout in progress")
	}
	if sess.Status != domain.StatusReadyToPay {
		status := sess.Status
		o.mu.Unlock()
		return nil, domain.Validation("payment not submittable, status is %s", status)
	}

	sess.Status = domain.StatusSubmitting
	seq := sess.Seq
	handle := sess.IntentHandle
	o.mu.Unlock()

	result, err := o.gateway.Confirm(ctx, payment.ConfirmRequest{
		Handle:  handle,
		Card:    card,
		Billing: billing,
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	if sess.Seq != seq {
		// The cart changed underneath the confirmation; whatever the gateway
		// said applies to a stale amount and must not win.
		return nil, domain.Validation("cart changed during payment")
	}

	switch {
	case err != nil:
		var declined *domain.DeclinedError
		if errors.As(err, &declined) {
			sess.Status = domain.StatusFailed
			sess.FailReason = declined.Reason
			return &Outcome{Session: *sess}, nil
		}
		o.logger.Printf("checkout: session=%s confirmation failed: %v", sessionID, err)
		sess.Status = domain.StatusFailed
		sess.FailReason = failReasonUnexpected
		return &Outcome{Session: *sess}, nil

	case result.Succeeded():
		sess.Status = domain.StatusSucceeded
		sess.IntentHandle = ""
		sess.FailReason = ""
		return &Outcome{Session: *sess, Redirect: SuccessRoute}, nil

	default:
		reason := result.Reason
		if reason == "" {
			reason = "Payment processing failed. Please try again."
		}
		sess.Status = domain.StatusFailed
		sess.FailReason = reason
		return &Outcome{Session: *sess}, nil
	}
}

// session returns the tracked session, creating it lazily. Callers hold the
// lock.
func (o *Orchestrator) session(sessionID string) *domain.CheckoutSession {
	sess, ok := o.sessions[sessionID]
	if !ok {
		sess = &domain.CheckoutSession{
			SessionID: sessionID,
			Status:    domain.StatusIdle,
			Currency:  o.currency,
		}
		o.sessions[sessionID] = sess
	}
	return sess
}
