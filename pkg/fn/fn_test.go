package fn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResultOk(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Fatal("Ok result misreported")
	}
	v, err := r.Unwrap()
	if v != 42 || err != nil {
		t.Fatalf("Unwrap = (%v, %v)", v, err)
	}
	if r.UnwrapOr(0) != 42 {
		t.Error("UnwrapOr should return the value")
	}
}

func TestResultErr(t *testing.T) {
	sentinel := errors.New("boom")
	r := Err[int](sentinel)
	if r.IsOk() {
		t.Fatal("Err result misreported")
	}
	if _, err := r.Unwrap(); !errors.Is(err, sentinel) {
		t.Fatalf("Unwrap err = %v", err)
	}
	if r.UnwrapOr(7) != 7 {
		t.Error("UnwrapOr should return the fallback")
	}
}

func TestFromPair(t *testing.T) {
	if r := FromPair("x", nil); !r.IsOk() {
		t.Error("nil error should be Ok")
	}
	if r := FromPair("x", errors.New("e")); !r.IsErr() {
		t.Error("non-nil error should be Err")
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond}

	r := Retry(context.Background(), opts, func(context.Context) Result[string] {
		attempts++
		if attempts < 3 {
			return Errf[string]("attempt %d", attempts)
		}
		return Ok("done")
	})

	if v, _ := r.Unwrap(); v != "done" {
		t.Fatalf("got %q", v)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d", attempts)
	}
}

func TestRetryExhausted(t *testing.T) {
	opts := RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	r := Retry(context.Background(), opts, func(context.Context) Result[int] {
		return Errf[int]("always fails")
	})
	if r.IsOk() {
		t.Fatal("expected failure after exhausting attempts")
	}
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := RetryOpts{MaxAttempts: 5, InitialWait: time.Minute, MaxWait: time.Minute}
	r := Retry(ctx, opts, func(context.Context) Result[int] {
		return Errf[int]("fail")
	})
	if _, err := r.Unwrap(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
