package otpsrv_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tambo-labs/tambo/pkg/config"
	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/iam/otp"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpmem"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpsrv"
)

// captureNotifier records sent codes instead of delivering them.
type captureNotifier struct {
	lastEmail string
	lastCode  string
	fail      error
}

func (n *captureNotifier) SendCode(_ context.Context, email, code string) error {
	if n.fail != nil {
		return n.fail
	}
	n.lastEmail = email
	n.lastCode = code
	return nil
}

func newTestService(notifier *captureNotifier, opts ...otpsrv.Option) *otpsrv.Service {
	return otpsrv.NewService(otpmem.NewMemoryStore(), notifier, config.OTPConfig{
		CodeLength:  6,
		TTL:         5 * time.Minute,
		VerifiedTTL: 30 * time.Minute,
	}, opts...)
}

func TestRequestAndVerify(t *testing.T) {
	ctx := context.Background()
	notifier := &captureNotifier{}
	svc := newTestService(notifier)

	code, err := svc.RequestCode(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected a 6 digit code, got %q", code)
	}
	if notifier.lastEmail != "alice@example.com" || notifier.lastCode != code {
		t.Fatalf("notifier saw %q/%q, want normalized email and the issued code", notifier.lastEmail, notifier.lastCode)
	}

	ok, err := svc.VerifyCode(ctx, "alice@example.com", code)
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if !ok {
		t.Fatal("expected the issued code to verify")
	}
}

func TestVerifyIsSingleUse(t *testing.T) {
	ctx := context.Background()
	notifier := &captureNotifier{}
	svc := newTestService(notifier)

	code, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}

	if ok, _ := svc.VerifyCode(ctx, "alice@example.com", code); !ok {
		t.Fatal("first verification should succeed")
	}
	if ok, _ := svc.VerifyCode(ctx, "alice@example.com", code); ok {
		t.Fatal("a consumed code verified a second time")
	}
}

func TestVerifyWrongCode(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&captureNotifier{})

	code, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	ok, err := svc.VerifyCode(ctx, "alice@example.com", wrong)
	if err != nil {
		t.Fatalf("VerifyCode returned an error for a mismatch: %v", err)
	}
	if ok {
		t.Fatal("wrong code verified")
	}

	// A failed attempt must not consume the stored code.
	if ok, _ := svc.VerifyCode(ctx, "alice@example.com", code); !ok {
		t.Fatal("correct code no longer verifies after a failed attempt")
	}
}

func TestReRequestInvalidatesPreviousCode(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&captureNotifier{})

	first, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	second, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("second RequestCode failed: %v", err)
	}

	if first != second {
		if ok, _ := svc.VerifyCode(ctx, "alice@example.com", first); ok {
			t.Fatal("superseded code still verified")
		}
	}
	if ok, _ := svc.VerifyCode(ctx, "alice@example.com", second); !ok {
		t.Fatal("latest code failed to verify")
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	svc := newTestService(&captureNotifier{}, otpsrv.WithClock(func() time.Time { return clock }))

	code, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}

	// Expiry is strict: dead at exactly the expiry instant.
	clock = clock.Add(5 * time.Minute)
	ok, err := svc.VerifyCode(ctx, "alice@example.com", code)
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if ok {
		t.Fatal("expired code verified")
	}
}

func TestRequestMalformedEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&captureNotifier{})

	for _, email := range []string{"", "not-an-email", "two words@example.com"} {
		_, err := svc.RequestCode(ctx, email)
		if err == nil {
			t.Fatalf("expected an error for %q", email)
		}
		if !errx.HasCode(err, otp.CodeInvalidEmail) {
			t.Fatalf("expected INVALID_EMAIL for %q, got %v", email, err)
		}
	}
}

func TestRequestDeliveryFailure(t *testing.T) {
	ctx := context.Background()
	notifier := &captureNotifier{fail: errors.New("smtp down")}
	svc := newTestService(notifier)

	_, err := svc.RequestCode(ctx, "alice@example.com")
	if err == nil {
		t.Fatal("expected a delivery error")
	}
	if !errx.HasCode(err, otp.CodeDeliveryFailed) {
		t.Fatalf("expected DELIVERY_FAILED, got %v", err)
	}
}

func TestConsumeVerification(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&captureNotifier{})

	code, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode failed: %v", err)
	}
	if ok, _ := svc.VerifyCode(ctx, "alice@example.com", code); !ok {
		t.Fatal("verification failed")
	}

	ok, err := svc.ConsumeVerification(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("ConsumeVerification failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a live verification proof")
	}

	// The proof is single use.
	if ok, _ := svc.ConsumeVerification(ctx, "alice@example.com"); ok {
		t.Fatal("verification proof consumed twice")
	}
}

func TestConsumeVerificationWithoutVerify(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&captureNotifier{})

	ok, err := svc.ConsumeVerification(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("ConsumeVerification failed: %v", err)
	}
	if ok {
		t.Fatal("expected no proof for an unverified email")
	}
}
