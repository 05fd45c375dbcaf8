package circuit

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewBreaker(t *testing.T) {
	config := DefaultConfig()
	breaker := NewBreaker("test", config, nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State().String())
	}

	if breaker.IsOpen() {
		t.Error("Expected breaker to not be open initially")
	}
}

func TestBreaker_TransitionToOpen(t *testing.T) {
	config := Config{
		Threshold:        3,
		Timeout:          1 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("test error"))
	}

	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after %d failures, got %s", config.Threshold, breaker.State().String())
	}

	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_TransitionToHalfOpen(t *testing.T) {
	config := Config{
		Threshold:        2,
		Timeout:          100 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	breaker.Record(errors.New("error 1"))
	breaker.Record(errors.New("error 2"))

	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN, got %s", breaker.State().String())
	}

	time.Sleep(150 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Errorf("Expected Allow() to succeed after timeout, got %v", err)
	}

	if breaker.State() != StateHalfOpen {
		t.Errorf("Expected state HALF_OPEN, got %s", breaker.State().String())
	}
}

func TestBreaker_TransitionToClosed(t *testing.T) {
	config := Config{
		Threshold:        2,
		Timeout:          50 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      5,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	breaker.Record(errors.New("error"))
	breaker.Record(errors.New("error"))

	time.Sleep(60 * time.Millisecond)

	breaker.Allow()

	breaker.Record(nil)
	breaker.Record(nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after successes, got %s", breaker.State().String())
	}
}

func TestBreaker_Execute(t *testing.T) {
	config := DefaultConfig()
	breaker := NewBreaker("test", config, nil)

	err := breaker.Execute(func() error {
		return nil
	})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	testErr := errors.New("test failure")
	err = breaker.Execute(func() error {
		return testErr
	})
	if err != testErr {
		t.Errorf("Expected test error, got %v", err)
	}
}

func TestBreaker_Reset(t *testing.T) {
	config := Config{Threshold: 1, Timeout: time.Hour}
	breaker := NewBreaker("test", config, nil)

	breaker.Record(errors.New("error"))

	if breaker.State() != StateOpen {
		t.Fatal("Expected state OPEN")
	}

	breaker.Reset()

	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after reset, got %s", breaker.State().String())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF_OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.expected)
		}
	}
}
