package interp_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"im2rec/internal/faults"
	"im2rec/internal/interp"
)

type countingRand struct {
	calls int
	next  int
}

func (r *countingRand) IntN(n int) int {
	r.calls++
	return r.next % n
}

func TestSelectAuto(t *testing.T) {
	cases := []struct {
		name                   string
		oldW, oldH, newW, newH int
		want                   interp.Algorithm
	}{
		{"enlarge", 100, 100, 200, 200, interp.Cubic},
		{"shrink", 200, 200, 100, 100, interp.Area},
		{"mixed", 100, 200, 150, 150, interp.Linear},
		{"equal", 150, 150, 150, 150, interp.Linear},
		{"one axis larger", 100, 100, 200, 100, interp.Linear},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := interp.Select(interp.ModeAuto, tc.oldW, tc.oldH, tc.newW, tc.newH, nil)
			if got != tc.want {
				t.Fatalf("Select = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSelectFixedIgnoresDimensionsAndRand(t *testing.T) {
	rng := &countingRand{}
	for _, mode := range []interp.Mode{interp.ModeNearest, interp.ModeLinear, interp.ModeCubic, interp.ModeArea, interp.ModeLanczos4} {
		if got := interp.Select(mode, 10, 10, 500, 500, rng); got != interp.Algorithm(mode) {
			t.Fatalf("Select(%s) = %s", mode, got)
		}
	}
	if rng.calls != 0 {
		t.Fatalf("fixed modes must not draw from the generator, drew %d times", rng.calls)
	}
}

func TestSelectRandomDrawsOncePerCall(t *testing.T) {
	rng := &countingRand{next: 4}
	got := interp.Select(interp.ModeRandom, 10, 10, 20, 20, rng)
	if got != interp.Lanczos4 {
		t.Fatalf("Select = %s, want lanczos4", got)
	}
	if rng.calls != 1 {
		t.Fatalf("expected exactly one draw, got %d", rng.calls)
	}
}

func TestSelectRandomIsReproducibleForSeed(t *testing.T) {
	sequence := func(seed uint64) []interp.Algorithm {
		rng := rand.New(rand.NewPCG(seed, seed))
		out := make([]interp.Algorithm, 64)
		for i := range out {
			out[i] = interp.Select(interp.ModeRandom, 100, 80, 64, 64, rng)
		}
		return out
	}
	a, b := sequence(17), sequence(17)
	seen := map[interp.Algorithm]bool{}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequence diverged at %d: %s vs %s", i, a[i], b[i])
		}
		if a[i] < interp.Nearest || a[i] > interp.Lanczos4 {
			t.Fatalf("algorithm out of range: %d", a[i])
		}
		seen[a[i]] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected a mix of algorithms over 64 draws, got %v", seen)
	}
}

func TestParseMode(t *testing.T) {
	for _, code := range []int{0, 1, 2, 3, 4, 9, 10} {
		if _, err := interp.ParseMode(code); err != nil {
			t.Fatalf("ParseMode(%d): %v", code, err)
		}
	}
	for _, code := range []int{-1, 5, 8, 11} {
		_, err := interp.ParseMode(code)
		if !errors.Is(err, faults.ErrConfiguration) {
			t.Fatalf("ParseMode(%d) = %v, want configuration error", code, err)
		}
	}
}

func TestScalerForEveryAlgorithm(t *testing.T) {
	for a := interp.Nearest; a <= interp.Lanczos4; a++ {
		if a.Scaler() == nil {
			t.Fatalf("no scaler for %s", a)
		}
	}
}
