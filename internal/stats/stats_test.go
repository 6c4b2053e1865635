package stats_test

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"im2rec/internal/stats"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestRunningMatchesTwoPass(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	samples := make([]float64, 10000)
	for i := range samples {
		samples[i] = rng.Float64() * 255
	}

	var r stats.Running
	for _, v := range samples {
		r.Push(v)
	}

	mean, variance := stat.MeanVariance(samples, nil)
	if !almostEqual(r.Mean, mean, 1e-12) {
		t.Fatalf("mean = %v, want %v", r.Mean, mean)
	}
	if !almostEqual(r.Mean, floats.Sum(samples)/float64(len(samples)), 1e-12) {
		t.Fatalf("mean = %v does not match arithmetic mean", r.Mean)
	}
	got, ok := r.Variance()
	if !ok {
		t.Fatal("expected variance to be available")
	}
	if !almostEqual(got, variance, 1e-9) {
		t.Fatalf("variance = %v, want %v", got, variance)
	}
	sd, _ := r.StdDev()
	if !almostEqual(sd, math.Sqrt(variance), 1e-9) {
		t.Fatalf("stddev = %v, want %v", sd, math.Sqrt(variance))
	}
}

func TestRunningIsStableWithLargeOffset(t *testing.T) {
	const offset = 1e9
	samples := []float64{offset + 4, offset + 7, offset + 13, offset + 16}
	var r stats.Running
	for _, v := range samples {
		r.Push(v)
	}
	got, _ := r.Variance()
	if !almostEqual(got, 30, 1e-9) {
		t.Fatalf("variance = %v, want 30", got)
	}
}

func TestRunningGuardsSmallCounts(t *testing.T) {
	var r stats.Running
	if _, ok := r.Variance(); ok {
		t.Fatal("variance must be unavailable with no samples")
	}
	r.Push(5)
	if v, ok := r.StdDev(); ok || v != 0 {
		t.Fatalf("stddev must be unavailable with one sample, got %v %v", v, ok)
	}
	if math.IsNaN(r.Mean) || r.Mean != 5 {
		t.Fatalf("mean = %v, want 5", r.Mean)
	}
	r.Push(7)
	if v, ok := r.Variance(); !ok || v != 2 {
		t.Fatalf("variance = %v %v, want 2 true", v, ok)
	}
}

func TestRunningMerge(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	var all, left, right stats.Running
	samples := make([]float64, 501)
	for i := range samples {
		samples[i] = rng.NormFloat64()*20 + 100
		all.Push(samples[i])
		if i < 200 {
			left.Push(samples[i])
		} else {
			right.Push(samples[i])
		}
	}
	left.Merge(right)
	if left.Count != all.Count {
		t.Fatalf("count = %d, want %d", left.Count, all.Count)
	}
	if !almostEqual(left.Mean, all.Mean, 1e-12) || !almostEqual(left.M2, all.M2, 1e-9) {
		t.Fatalf("merged %+v differs from sequential %+v", left, all)
	}

	var empty stats.Running
	empty.Merge(all)
	if empty != all {
		t.Fatalf("merge into empty = %+v, want %+v", empty, all)
	}
}

func TestAccumulatorRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	var reds, greens, blues, pooled []float64
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			c := color.RGBA{R: uint8(10 * x), G: uint8(20 * y), B: uint8(x + y), A: 255}
			img.SetRGBA(x, y, c)
			reds = append(reds, float64(c.R))
			greens = append(greens, float64(c.G))
			blues = append(blues, float64(c.B))
			pooled = append(pooled, float64(c.R), float64(c.G), float64(c.B))
		}
	}

	var acc stats.Accumulator
	if err := acc.AddImage(img); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if acc.Global.Count != int64(len(pooled)) {
		t.Fatalf("global count = %d, want %d", acc.Global.Count, len(pooled))
	}

	sum := acc.Summary()
	if len(sum.Channels) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(sum.Channels))
	}
	for i, want := range [][]float64{reds, greens, blues} {
		mean, variance := stat.MeanVariance(want, nil)
		ch := sum.Channels[i]
		if ch.Count != 12 {
			t.Fatalf("%s count = %d, want 12", ch.Name, ch.Count)
		}
		if !almostEqual(ch.Mean, mean, 1e-12) || !almostEqual(ch.StdDev, math.Sqrt(variance), 1e-9) {
			t.Fatalf("%s = %+v, want mean %v sd %v", ch.Name, ch, mean, math.Sqrt(variance))
		}
	}
	if sum.Channels[0].Name != "red" || sum.Channels[2].Name != "blue" {
		t.Fatalf("unexpected channel names %+v", sum.Channels)
	}
	mean, variance := stat.MeanVariance(pooled, nil)
	if !almostEqual(sum.Global.Mean, mean, 1e-12) || !almostEqual(sum.Global.StdDev, math.Sqrt(variance), 1e-9) {
		t.Fatalf("global = %+v, want mean %v sd %v", sum.Global, mean, math.Sqrt(variance))
	}
}

func TestAccumulatorGraySubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 6))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	sub := img.SubImage(image.Rect(2, 2, 4, 5)).(*image.Gray)

	var want []float64
	for y := 2; y < 5; y++ {
		for x := 2; x < 4; x++ {
			want = append(want, float64(img.GrayAt(x, y).Y))
		}
	}

	var acc stats.Accumulator
	if err := acc.AddImage(sub); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	sum := acc.Summary()
	if len(sum.Channels) != 1 || sum.Channels[0].Name != "gray" {
		t.Fatalf("expected a single gray channel, got %+v", sum.Channels)
	}
	if !almostEqual(sum.Global.Mean, stat.Mean(want, nil), 1e-12) {
		t.Fatalf("mean = %v, want %v", sum.Global.Mean, stat.Mean(want, nil))
	}
}

func TestAccumulatorSummaryBeforeTwoSamples(t *testing.T) {
	var acc stats.Accumulator
	sum := acc.Summary()
	if sum.Global.Ready || sum.Global.Count != 0 || len(sum.Channels) != 0 {
		t.Fatalf("expected empty summary, got %+v", sum)
	}
	acc.Update(3, 0)
	sum = acc.Summary()
	if sum.Global.Ready || sum.Channels[0].Ready {
		t.Fatalf("one sample must not produce a stddev: %+v", sum)
	}
}

func TestAccumulatorRejectsUnsupportedImage(t *testing.T) {
	var acc stats.Accumulator
	if err := acc.AddImage(image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Fatal("expected error for NRGBA input")
	}
}
