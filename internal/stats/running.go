package stats

import "math"

// Running is one Welford accumulator. The zero value is ready to use.
type Running struct {
	Count int64
	Mean  float64
	M2    float64
}

// Push adds one sample.
func (r *Running) Push(x float64) {
	r.Count++
	delta := x - r.Mean
	r.Mean += delta / float64(r.Count)
	r.M2 += delta * (x - r.Mean)
}

// Variance returns the sample variance M2/(Count-1). The second result is
// false, and no division happens, while fewer than two samples were seen.
func (r Running) Variance() (float64, bool) {
	if r.Count < 2 {
		return 0, false
	}
	return r.M2 / float64(r.Count-1), true
}

// StdDev returns the sample standard deviation; see Variance.
func (r Running) StdDev() (float64, bool) {
	v, ok := r.Variance()
	if !ok {
		return 0, false
	}
	return math.Sqrt(v), true
}

// Merge folds other into r using the pairwise combination of Chan et al.,
// giving the same result as pushing other's samples one by one.
func (r *Running) Merge(other Running) {
	if other.Count == 0 {
		return
	}
	if r.Count == 0 {
		*r = other
		return
	}
	n := r.Count + other.Count
	delta := other.Mean - r.Mean
	r.Mean += delta * float64(other.Count) / float64(n)
	r.M2 += other.M2 + delta*delta*float64(r.Count)*float64(other.Count)/float64(n)
	r.Count = n
}
