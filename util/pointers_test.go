package util

import "testing"

func TestPtr(t *testing.T) {
	p := Ptr(1.5)
	if p == nil || *p != 1.5 {
		t.Fatalf("expected pointer to 1.5, got %v", p)
	}
}

func TestDeref(t *testing.T) {
	if got := Deref[float64](nil); got != 0 {
		t.Errorf("expected zero value, got %v", got)
	}
	if got := Deref(Ptr("x")); got != "x" {
		t.Errorf("expected 'x', got %q", got)
	}
}

func TestClone(t *testing.T) {
	if Clone[float64](nil) != nil {
		t.Error("expected nil clone of nil pointer")
	}
	orig := Ptr(2.0)
	c := Clone(orig)
	*c = 3.0
	if *orig != 2.0 {
		t.Errorf("clone aliases original: %v", *orig)
	}
}
