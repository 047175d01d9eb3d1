package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(Validation("missing title")); got != KindValidation {
		t.Fatalf("KindOf = %s, want %s", got, KindValidation)
	}
	wrapped := fmt.Errorf("verify payment: %w", InvalidState("payment already verified"))
	if got := KindOf(wrapped); got != KindInvalidState {
		t.Fatalf("KindOf through wrapping = %s, want %s", got, KindInvalidState)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("KindOf for non-apperror = %q, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Fatalf("KindOf(nil) = %q, want empty", got)
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := Conflict("slot %s already taken", "2024-05-06T08:00")
	if !errors.Is(err, Conflict("")) {
		t.Fatalf("same kind should match regardless of message")
	}
	if errors.Is(err, Forbidden("")) {
		t.Fatalf("different kinds must not match")
	}
	wrapped := fmt.Errorf("assign staff: %w", err)
	if !errors.Is(wrapped, Conflict("")) {
		t.Fatalf("kind matching should see through wrapping")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{OutOfHours("outside business hours"), http.StatusBadRequest},
		{NotFound("no such project"), http.StatusNotFound},
		{Forbidden("not your project"), http.StatusForbidden},
		{InvalidState("already verified"), http.StatusConflict},
		{Conflict("slot taken"), http.StatusConflict},
		{AlreadyAssigned("appointment already assigned"), http.StatusConflict},
		{Precondition("blueprint required"), http.StatusUnprocessableEntity},
		{errors.New("database down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorMessageFormatting(t *testing.T) {
	err := NotFound("user %s not found", "abc")
	if err.Error() != "user abc not found" {
		t.Fatalf("message = %q", err.Error())
	}
	if err.Kind != KindNotFound {
		t.Fatalf("kind = %q", err.Kind)
	}
}
