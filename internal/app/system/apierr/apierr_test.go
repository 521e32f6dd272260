package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"self sign", ValidationReason(ReasonSelfSign, "no"), http.StatusBadRequest},
		{"unauthorized", Unauthorized(), http.StatusUnauthorized},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"upstream", Upstream("rag down", nil), http.StatusBadGateway},
		{"timeout", Timeout("slow", nil), http.StatusInternalServerError},
		{"misconfigured", Misconfigured("no key", nil), http.StatusInternalServerError},
		{"rate limited", RateLimited("slow down"), http.StatusTooManyRequests},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Status(); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFrom_WrapsUnknown(t *testing.T) {
	cause := errors.New("socket closed")
	ae := From(cause)
	if ae.Kind != KindInternal {
		t.Errorf("Kind = %v, want KindInternal", ae.Kind)
	}
	if ae.Message != "Internal server error" {
		t.Errorf("Message = %q, cause must not leak", ae.Message)
	}
	if !errors.Is(ae, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestFrom_FindsWrapped(t *testing.T) {
	err := fmt.Errorf("sign: %w", ValidationReason(ReasonAlreadySigned, "dup"))
	ae := From(err)
	if ae.Reason != ReasonAlreadySigned {
		t.Errorf("Reason = %q, want %q", ae.Reason, ReasonAlreadySigned)
	}
	if !HasReason(err, ReasonAlreadySigned) {
		t.Error("HasReason should see through wrapping")
	}
	if HasReason(err, ReasonSelfSign) {
		t.Error("HasReason matched the wrong reason")
	}
	if !IsKind(err, KindValidation) {
		t.Error("IsKind should report KindValidation")
	}
}
