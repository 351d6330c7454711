package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFrom(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if got := From(nil); got != nil {
			t.Errorf("From(nil) = %v", got)
		}
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := From(fmt.Errorf("db exploded"))
		if got.Status != http.StatusInternalServerError || !got.IsInternal() {
			t.Errorf("got %+v, want internal", got)
		}
	})

	t.Run("typed error passes through", func(t *testing.T) {
		src := Conflict("name_taken", fmt.Errorf("taken"))
		got := From(src)
		if got != src {
			t.Errorf("From rewrapped an existing error")
		}
	})

	t.Run("wrapped typed error unwraps", func(t *testing.T) {
		src := NotFound("blueprint")
		got := From(fmt.Errorf("loading tree: %w", src))
		if got.Status != http.StatusNotFound || got.Code != "not_found" {
			t.Errorf("got %+v, want the wrapped not-found", got)
		}
	})
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		name       string
		err        *Error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("bad_input", fmt.Errorf("bad")), http.StatusBadRequest, "bad_input"},
		{"not found", NotFound("session"), http.StatusNotFound, "not_found"},
		{"conflict", Conflict("in_use", fmt.Errorf("used")), http.StatusConflict, "in_use"},
		{"internal", Internal(fmt.Errorf("boom")), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Status != tc.wantStatus || tc.err.Code != tc.wantCode {
				t.Errorf("got status=%d code=%q", tc.err.Status, tc.err.Code)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	if got := NotFound("field").Error(); got != "field not found" {
		t.Errorf("message = %q", got)
	}
	var target *Error
	wrapped := fmt.Errorf("ctx: %w", Validation("x", fmt.Errorf("inner")))
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As failed on wrapped *Error")
	}
	if !errors.Is(wrapped, target) {
		t.Error("errors.Is failed on wrapped *Error")
	}
}
