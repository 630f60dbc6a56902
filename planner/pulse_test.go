package planner

import (
	"errors"
	"testing"
)

func TestPulseFireOnceWins(t *testing.T) {
	p := newPulse()

	if !p.fire(nil) {
		t.Fatal("first fire should report firedByMe = true")
	}
	if p.fire(nil) {
		t.Fatal("second fire should report firedByMe = false")
	}
	if err := p.wait(); err != nil {
		t.Fatalf("wait() = %v, want nil", err)
	}
}

func TestPulseWaitReturnsFiredError(t *testing.T) {
	p := newPulse()
	want := errors.New("boom")
	p.fire(want)

	if got := p.wait(); got != want {
		t.Fatalf("wait() = %v, want %v", got, want)
	}
}
