package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/payment"
)

type stubGateway struct {
	mu sync.Mutex

	intentErr   error
	intentCalls int
	intentReqs  []payment.IntentRequest
	// gates, when set, block the matching CreateIntent call until closed.
	gates []chan struct{}

	confirmResult *payment.ConfirmResult
	confirmErr    error
	confirmCalls  int
	lastConfirm   payment.ConfirmRequest
}

func (g *stubGateway) CreateIntent(_ context.Context, in payment.IntentRequest) (*payment.Intent, error) {
	g.mu.Lock()
	call := g.intentCalls
	g.intentCalls++
	g.intentReqs = append(g.intentReqs, in)
	var gate chan struct{}
	if call < len(g.gates) {
		gate = g.gates[call]
	}
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if g.intentErr != nil {
		return nil, g.intentErr
	}
	return &payment.Intent{Handle: fmt.Sprintf("h%d", call+1)}, nil
}

func (g *stubGateway) Confirm(_ context.Context, in payment.ConfirmRequest) (*payment.ConfirmResult, error) {
	g.mu.Lock()
	g.confirmCalls++
	g.lastConfirm = in
	g.mu.Unlock()
	if g.confirmErr != nil {
		return nil, g.confirmErr
	}
	return g.confirmResult, nil
}

func testCart(totals ...int64) *domain.Cart {
	cart := &domain.Cart{SessionID: "s1", Currency: "usd"}
	for i, cents := range totals {
		cart.Lines = append(cart.Lines, domain.CartLine{
			ItemID:         fmt.Sprintf("%d", i+1),
			Name:           fmt.Sprintf("Product %d", i+1),
			UnitPriceCents: cents,
			Quantity:       1,
		})
	}
	return cart
}

func TestCartChangedEmptyCartResetsToIdle(t *testing.T) {
	gw := &stubGateway{}
	o := New(gw, "usd", nil)

	sess, err := o.CartChanged(context.Background(), testCart())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Status != domain.StatusIdle {
		t.Fatalf("expected Idle, got %s", sess.Status)
	}
	if gw.intentCalls != 0 {
		t.Fatalf("empty cart must not request an intent")
	}
}

func TestCartChangedRequestsIntent(t *testing.T) {
	gw := &stubGateway{}
	o := New(gw, "usd", nil)

	sess, err := o.CartChanged(context.Background(), testCart(1999))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Status != domain.StatusReadyToPay {
		t.Fatalf("expected ReadyToPay, got %s", sess.Status)
	}
	if sess.AmountCents != 1999 {
		t.Fatalf("expected amount 1999, got %d", sess.AmountCents)
	}
	if gw.intentReqs[0].Amount != 19.99 {
		t.Fatalf("expected wire amount 19.99, got %v", gw.intentReqs[0].Amount)
	}
	if gw.intentReqs[0].Currency != "usd" {
		t.Fatalf("expected currency usd, got %s", gw.intentReqs[0].Currency)
	}
}

func TestCartChangeInvalidatesIssuedHandle(t *testing.T) {
	gw := &stubGateway{confirmResult: &payment.ConfirmResult{Status: "succeeded"}}
	o := New(gw, "usd", nil)
	ctx := context.Background()

	if _, err := o.CartChanged(ctx, testCart(1999)); err != nil {
		t.Fatalf("first change: %v", err)
	}

	// The cart grows; h1 is now for a mismatched amount and must be replaced.
	sess, err := o.CartChanged(ctx, testCart(1999, 2999))
	if err != nil {
		t.Fatalf("second change: %v", err)
	}
	if sess.Status != domain.StatusReadyToPay {
		t.Fatalf("expected ReadyToPay, got %s", sess.Status)
	}
	if gw.intentCalls != 2 {
		t.Fatalf("expected a fresh intent request, got %d calls", gw.intentCalls)
	}
	if gw.intentReqs[1].Amount != 49.98 {
		t.Fatalf("expected re-request for 49.98, got %v", gw.intentReqs[1].Amount)
	}

	// The confirmation must carry the fresh handle, never the stale one.
	if _, err := o.SubmitPayment(ctx, "s1", payment.Card{}, payment.BillingDetails{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gw.lastConfirm.Handle != "h2" {
		t.Fatalf("expected confirmation against h2, got %s", gw.lastConfirm.Handle)
	}
}

func TestOverlappingIntentResponsesStaleDiscarded(t *testing.T) {
	gate := make(chan struct{})
	gw := &stubGateway{
		gates:         []chan struct{}{gate, nil},
		confirmResult: &payment.ConfirmResult{Status: "succeeded"},
	}
	o := New(gw, "usd", nil)
	ctx := context.Background()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		if _, err := o.CartChanged(ctx, testCart(1999)); err != nil {
			t.Errorf("first change: %v", err)
		}
	}()

	// Wait for the first request to reach the gateway.
	deadline := time.After(2 * time.Second)
	for {
		gw.mu.Lock()
		calls := gw.intentCalls
		gw.mu.Unlock()
		if calls == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first intent request never reached the gateway")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// The cart changes while the first request is still in flight; its
	// response resolves immediately with h2.
	sess, err := o.CartChanged(ctx, testCart(1999, 2999))
	if err != nil {
		t.Fatalf("second change: %v", err)
	}
	if sess.Status != domain.StatusReadyToPay {
		t.Fatalf("expected ReadyToPay, got %s", sess.Status)
	}

	// Now the slow first response arrives carrying h1; it must be discarded.
	close(gate)
	<-firstDone

	if _, err := o.SubmitPayment(ctx, "s1", payment.Card{}, payment.BillingDetails{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gw.lastConfirm.Handle != "h2" {
		t.Fatalf("stale handle h1 won over h2")
	}
}

func TestIntentRequestFailure(t *testing.T) {
	gw := &stubGateway{intentErr: &domain.ExternalError{Service: "payment", Err: errors.New("boom")}}
	o := New(gw, "usd", nil)

	sess, err := o.CartChanged(context.Background(), testCart(1999))
	if err != nil {
		t.Fatalf("failures must be absorbed into the session state, got %v", err)
	}
	if sess.Status != domain.StatusFailed {
		t.Fatalf("expected Failed, got %s", sess.Status)
	}
	if sess.FailReason == "" {
		t.Fatalf("expected a user-visible fail reason")
	}
}

func TestSubmitPaymentGuardIdle(t *testing.T) {
	gw := &stubGateway{}
	o := New(gw, "usd", nil)

	_, err := o.SubmitPayment(context.Background(), "s1", payment.Card{}, payment.BillingDetails{})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if gw.confirmCalls != 0 {
		t.Fatalf("guard violation must not reach the gateway")
	}
}

func TestSubmitPaymentGuardNotReady(t *testing.T) {
	gw := &stubGateway{intentErr: errors.New("down")}
	o := New(gw, "usd", nil)
	ctx := context.Background()

	// Failed session: still not submittable.
	if _, err := o.CartChanged(ctx, testCart(1999)); err != nil {
		t.Fatalf("cart changed: %v", err)
	}
	_, err := o.SubmitPayment(ctx, "s1", payment.Card{}, payment.BillingDetails{})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected contract violation in Failed, got %v", err)
	}
	if gw.confirmCalls != 0 {
		t.Fatalf("no confirmation call expected")
	}
}

func TestSubmitPaymentSucceededRedirectsOnce(t *testing.T) {
	gw := &stubGateway{confirmResult: &payment.ConfirmResult{Status: "succeeded"}}
	o := New(gw, "usd", nil)
	ctx := context.Background()

	if _, err := o.CartChanged(ctx, testCart(1999)); err != nil {
		t.Fatalf("cart changed: %v", err)
	}

	outcome, err := o.SubmitPayment(ctx, "s1", payment.Card{Number: "4242424242424242"}, payment.BillingDetails{Name: "Customer Name"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Session.Status != domain.StatusSucceeded {
		t.Fatalf("expected Succeeded, got %s", outcome.Session.Status)
	}
	if outcome.Redirect != SuccessRoute {
		t.Fatalf("expected redirect to %s, got %q", SuccessRoute, outcome.Redirect)
	}

	// A second submission does not re-signal the redirect; the session is
	// terminal and the guard fires.
	_, err = o.SubmitPayment(ctx, "s1", payment.Card{}, payment.BillingDetails{})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected contract violation after success, got %v", err)
	}
	if gw.confirmCalls != 1 {
		t.Fatalf("expected a single confirmation call, got %d", gw.confirmCalls)
	}
}

func TestSubmitPaymentDeclinedReasonVerbatim(t *testing.T) {
	gw := &stubGateway{confirmResult: &payment.ConfirmResult{Status: "failed", Reason: "Your card was declined."}}
	o := New(gw, "usd", nil)
	ctx := context.Background()

	if _, err := o.CartChanged(ctx, testCart(1999)); err != nil {
		t.Fatalf("cart changed: %v", err)
	}

	outcome, err := o.SubmitPayment(ctx, "s1", payment.Card{}, payment.BillingDetails{})
	if err != nil {
		t.Fatalf("declines are absorbed into the session state, got %v", err)
	}
	if outcome.Session.Status != domain.StatusFailed {
		t.Fatalf("expected Failed, got %s", outcome.Session.Status)
	}
	if outcome.Session.FailReason != "Your card was declined." {
		t.Fatalf("decline reason must pass through verbatim, got %q", outcome.Session.FailReason)
	}
	if outcome.Redirect != "" {
		t.Fatalf("no redirect on decline")
	}
}

func TestSubmitPaymentTransportFailure(t *testing.T) {
	gw := &stubGateway{confirmErr: &domain.ExternalError{Service: "payment", Err: errors.New("timeout")}}
	o := New(gw, "usd", nil)
	ctx := context.Background()

	if _, err := o.CartChanged(ctx, testCart(1999)); err != nil {
		t.Fatalf("cart changed: %v", err)
	}

	outcome, err := o.SubmitPayment(ctx, "s1", payment.Card{}, payment.BillingDetails{})
	if err != nil {
		t.Fatalf("transport failures are absorbed, got %v", err)
	}
	if outcome.Session.Status != domain.StatusFailed {
		t.Fatalf("expected Failed, got %s", outcome.Session.Status)
	}
	if outcome.Session.FailReason != "unexpected" {
		t.Fatalf("expected generic reason, got %q", outcome.Session.FailReason)
	}
}

func TestRetryAfterFailure(t *testing.T) {
	gw := &stubGateway{intentErr: errors.New("down")}
	o := New(gw, "usd", nil)
	ctx := context.Background()
	cart := testCart(1999)

	if _, err := o.CartChanged(ctx, cart); err != nil {
		t.Fatalf("cart changed: %v", err)
	}
	if got := o.Session("s1").Status; got != domain.StatusFailed {
		t.Fatalf("expected Failed, got %s", got)
	}

	// The gateway recovers; retry re-requests a fresh handle.
	gw.intentErr = nil
	sess, err := o.Retry(ctx, cart)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if sess.Status != domain.StatusReadyToPay {
		t.Fatalf("expected ReadyToPay after retry, got %s", sess.Status)
	}
}

func TestRetryOnlyFromFailed(t *testing.T) {
	gw := &stubGateway{}
	o := New(gw, "usd", nil)

	_, err := o.Retry(context.Background(), testCart(1999))
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDiscardResetsSession(t *testing.T) {
	gw := &stubGateway{}
	o := New(gw, "usd", nil)
	ctx := context.Background()

	if _, err := o.CartChanged(ctx, testCart(1999)); err != nil {
		t.Fatalf("cart changed: %v", err)
	}
	o.Discard("s1")
	if got := o.Session("s1").Status; got != domain.StatusIdle {
		t.Fatalf("expected Idle after discard, got %s", got)
	}
}
