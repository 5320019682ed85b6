package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestStoreErrorUnwraps(t *testing.T) {
	err := NewStoreError("trades", "insert", ErrDatabaseError)
	if !stderrors.Is(err, ErrDatabaseError) {
		t.Error("StoreError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "trades") || !strings.Contains(err.Error(), "insert") {
		t.Errorf("message lacks context: %q", err.Error())
	}

	var serr *StoreError
	if !stderrors.As(err, &serr) || serr.Collection != "trades" {
		t.Error("As failed to recover the StoreError")
	}
}

func TestReportErrorUnwraps(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewReportError("performance", cause)
	if !stderrors.Is(err, cause) {
		t.Error("ReportError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "performance") {
		t.Errorf("message lacks the section name: %q", err.Error())
	}
}

func TestValidationErrorUnwrapsToSentinel(t *testing.T) {
	err := NewValidationError("date", "2026-13-40", "expected YYYY-MM-DD")
	if !stderrors.Is(err, ErrInputValidation) {
		t.Error("ValidationError does not unwrap to ErrInputValidation")
	}
	for _, want := range []string{"date", "2026-13-40", "expected YYYY-MM-DD"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message %q missing %q", err.Error(), want)
		}
	}

	var verr *ValidationError
	if !stderrors.As(err, &verr) || verr.Field != "date" {
		t.Error("As failed to recover the ValidationError")
	}
}

func TestRiskWarningMessage(t *testing.T) {
	w := NewRiskWarning("daily-loss-limit", 250, 200, "realized loss exceeds the limit")
	msg := w.Error()
	for _, want := range []string{"daily-loss-limit", "250", "200"} {
		if !strings.Contains(msg, want) {
			t.Errorf("warning %q missing %q", msg, want)
		}
	}
}

func TestWrapNilPassthrough(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
	wrapped := Wrap(ErrTradeNotFound, "loading trade")
	if !Is(wrapped, ErrTradeNotFound) {
		t.Error("wrapped error lost its sentinel")
	}
}
