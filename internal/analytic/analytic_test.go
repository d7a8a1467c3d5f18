package analytic

import (
	"errors"
	"math"
	"testing"
)

func TestFirstOrderDecay(t *testing.T) {
	pts, err := FirstOrderDecay([]float64{0, 1, 5}, 0.8, 0.15, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(pts[0].A-0.15) > 1e-15 || math.Abs(pts[0].B-0.1) > 1e-15 {
		t.Errorf("t=0: got %+v", pts[0])
	}

	wantA := 0.15 * math.Exp(-0.8)
	if math.Abs(pts[1].A-wantA) > 1e-15 {
		t.Errorf("A(1) = %v, want %v", pts[1].A, wantA)
	}
	if math.Abs(pts[1].A-0.0674) > 1e-4 {
		t.Errorf("A(1) = %.6f, want ~0.0674", pts[1].A)
	}
	for _, p := range pts {
		if math.Abs(p.A+p.B-0.25) > 1e-15 {
			t.Errorf("t=%v: mass not conserved, A+B=%v", p.T, p.A+p.B)
		}
	}
}

func TestUnaryIrrevCSTRWorkedExample(t *testing.T) {
	p := CSTRParams{K: 0.8, FeedRatio: 0.3, FeedA: 0.7, FeedB: 0.1, InitA: 0.15, InitB: 0.1}

	pts, err := UnaryIrrevCSTR([]float64{0}, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(pts[0].A-0.15) > 1e-15 || math.Abs(pts[0].B-0.1) > 1e-15 {
		t.Errorf("initial values not reproduced: %+v", pts[0])
	}

	ss, err := UnaryIrrevCSTRSteadyState(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	late, _ := UnaryIrrevCSTR([]float64{200}, p)
	if math.Abs(late[0].A-ss.A) > 1e-12 || math.Abs(late[0].B-ss.B) > 1e-12 {
		t.Errorf("t=200 %+v does not match steady state %+v", late[0], ss)
	}
	if math.Abs(ss.A-0.7*0.3/1.1) > 1e-15 {
		t.Errorf("steady A = %v", ss.A)
	}
	if math.Abs(ss.B-(0.7*0.8+0.1*1.1)/1.1) > 1e-15 {
		t.Errorf("steady B = %v", ss.B)
	}
}

func TestUnaryIrrevCSTRSatisfiesODE(t *testing.T) {
	p := CSTRParams{K: 1.7, FeedRatio: 0.4, FeedA: 0.9, FeedB: 0.2, InitA: 0.05, InitB: 0.6}
	h := 1e-6

	for _, tm := range []float64{0.1, 0.5, 2, 7} {
		pts, err := UnaryIrrevCSTR([]float64{tm - h, tm, tm + h}, p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		dA := (pts[2].A - pts[0].A) / (2 * h)
		dB := (pts[2].B - pts[0].B) / (2 * h)
		a, b := pts[1].A, pts[1].B

		if want := -p.K*a - p.FeedRatio*a + p.FeedRatio*p.FeedA; math.Abs(dA-want) > 1e-7 {
			t.Errorf("t=%v: dA/dt = %v, want %v", tm, dA, want)
		}
		if want := p.K*a - p.FeedRatio*b + p.FeedRatio*p.FeedB; math.Abs(dB-want) > 1e-7 {
			t.Errorf("t=%v: dB/dt = %v, want %v", tm, dB, want)
		}
	}
}

func TestUnaryIrrevCSTRPresentationsAgree(t *testing.T) {
	params := []CSTRParams{
		{K: 0.8, FeedRatio: 0.3, FeedA: 0.7, FeedB: 0.1, InitA: 0.15, InitB: 0.1},
		{K: 0, FeedRatio: 1.2, FeedA: 0.3, FeedB: 0.4, InitA: 1, InitB: 0},
		{K: 2.5, FeedRatio: 0, FeedA: 5, FeedB: 5, InitA: 0.4, InitB: 0.2},
		{K: 0, FeedRatio: 0, FeedA: 1, FeedB: 1, InitA: 0.3, InitB: 0.7},
		{K: 10, FeedRatio: 0.01, FeedA: 0, FeedB: 0, InitA: 0, InitB: 0},
	}

	for _, p := range params {
		for _, tm := range []float64{0, 0.25, 1, 3, 10, 40} {
			a1, b1 := unaryIrrevCSTR(tm, p)
			a2, b2 := unaryIrrevCSTRExpanded(tm, p)
			if math.Abs(a1-a2) > 1e-14 || math.Abs(b1-b2) > 1e-14 {
				t.Errorf("%+v t=%v: (%v, %v) vs (%v, %v)", p, tm, a1, b1, a2, b2)
			}
		}
	}
}

func TestUnaryIrrevCSTRNoFlowNoReaction(t *testing.T) {
	pts, err := UnaryIrrevCSTR([]float64{0, 10}, CSTRParams{FeedA: 1, FeedB: 1, InitA: 0.3, InitB: 0.7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range pts {
		if p.A != 0.3 || p.B != 0.7 {
			t.Errorf("expected constant profile, got %+v", p)
		}
	}
}

func TestUnaryIrrevCSTRInvalid(t *testing.T) {
	tests := []CSTRParams{
		{K: -1},
		{FeedRatio: -0.1},
		{K: math.NaN()},
		{InitA: math.Inf(1)},
	}
	for _, p := range tests {
		if _, err := UnaryIrrevCSTR([]float64{1}, p); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: expected ErrInvalidParameter, got %v", p, err)
		}
		if _, err := UnaryIrrevCSTRSteadyState(p); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: steady state: expected ErrInvalidParameter, got %v", p, err)
		}
	}
}
