package model

import "testing"

func TestCents(t *testing.T) {
	if got := Cents(230).StringFixed(2); got != "2.30" {
		t.Fatalf("Cents(230) = %s, want 2.30", got)
	}
	if got := Cents(0).StringFixed(2); got != "0.00" {
		t.Fatalf("Cents(0) = %s, want 0.00", got)
	}
}

func TestStageLabels(t *testing.T) {
	stages := []Stage{
		StagePending, StageRescheduled, StageNoShow, StageOnboarded,
		StageDeclined, StageTransferred, StageActivated,
	}
	for _, s := range stages {
		if StageLabels[s] == "" {
			t.Fatalf("no label for %s", s)
		}
	}
	if StageLabels[StageNoShow] != "Failed to Show" {
		t.Fatalf("label = %q", StageLabels[StageNoShow])
	}
}

func TestIsNotFound(t *testing.T) {
	err := &NotFoundError{ID: "a1"}
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound to match")
	}
	if IsNotFound(nil) {
		t.Fatal("nil is not a not-found error")
	}
}
