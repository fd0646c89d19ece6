package lifecycle

import "testing"

func TestFeasibleSelfLoops(t *testing.T) {
	for s := Creating; s < count; s++ {
		if !Feasible(s, s) {
			t.Errorf("Feasible(%s, %s) = false, want true (self-loop)", s, s)
		}
	}
}

func TestFeasibleTable(t *testing.T) {
	cases := []struct {
		from, to State
		want     bool
	}{
		{Idle, Applying, true},
		{Idle, Running, true},
		{Running, CoolingDown, true},
		{CoolingDown, Idle, false}, // CoolingDown restores IDLE via SetNext, not the gated path
		{Destroying, Idle, false},
		{Exiting, Creating, false},
		{Applying, Running, true},
	}
	for _, c := range cases {
		if got := Feasible(c.from, c.to); got != c.want {
			t.Errorf("Feasible(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAsProcessState(t *testing.T) {
	if ps, ok := Idle.AsProcessState(); !ok || ps != ProcessStateIdle {
		t.Errorf("Idle.AsProcessState() = (%v, %v), want (%v, true)", ps, ok, ProcessStateIdle)
	}
	if ps, ok := Running.AsProcessState(); !ok || ps != ProcessStateRunning {
		t.Errorf("Running.AsProcessState() = (%v, %v), want (%v, true)", ps, ok, ProcessStateRunning)
	}
	if _, ok := Applying.AsProcessState(); ok {
		t.Error("Applying.AsProcessState() reported ok=true, want false (transient state)")
	}
}
