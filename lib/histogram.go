package lib

import "math"
import "strconv"

// Histogram statistical histogram of int64 samples, bucketed between
// [from, till) in steps of width. Samples below from and at or beyond
// till fall into the first and the last bucket. Not safe for
// concurrent use.
type Histogram struct {
	// stats
	n       int64
	minval  int64
	maxval  int64
	sum     int64
	sumsq   float64
	buckets []int64
	// setup
	from  int64
	till  int64
	width int64
}

// NewHistogram return a new histogram object.
func NewHistogram(from, till, width int64) *Histogram {
	from = (from / width) * width
	till = (till / width) * width
	h := &Histogram{from: from, till: till, width: width}
	h.buckets = make([]int64, 1+((till-from)/width)+1)
	return h
}

// Add a sample to this histogram.
func (h *Histogram) Add(sample int64) {
	if h.n == 0 || sample < h.minval {
		h.minval = sample
	}
	if h.n == 0 || sample > h.maxval {
		h.maxval = sample
	}
	h.n++
	h.sum += sample
	f := float64(sample)
	h.sumsq += f * f

	switch {
	case sample < h.from:
		h.buckets[0]++
	case sample >= h.till:
		h.buckets[len(h.buckets)-1]++
	default:
		h.buckets[((sample-h.from)/h.width)+1]++
	}
}

// Min return minimum value from sample.
func (h *Histogram) Min() int64 { return h.minval }

// Max return maximum value from sample.
func (h *Histogram) Max() int64 { return h.maxval }

// Samples return total number of samples in the set.
func (h *Histogram) Samples() int64 { return h.n }

// Sum return the sum of all sample values.
func (h *Histogram) Sum() int64 { return h.sum }

// Mean return the average value of all samples.
func (h *Histogram) Mean() int64 {
	if h.n == 0 {
		return 0
	}
	return int64(float64(h.sum) / float64(h.n))
}

// Variance return the squared deviation of samples from their mean.
func (h *Histogram) Variance() float64 {
	if h.n == 0 {
		return 0
	}
	nF, meanF := float64(h.n), float64(h.sum)/float64(h.n)
	return (h.sumsq / nF) - (meanF * meanF)
}

// SD return standard deviation of the samples.
func (h *Histogram) SD() float64 {
	return math.Sqrt(h.Variance())
}

// Clone copies the entire instance.
func (h *Histogram) Clone() *Histogram {
	newh := *h
	newh.buckets = make([]int64, len(h.buckets))
	copy(newh.buckets, h.buckets)
	return &newh
}

// Buckets return the cumulative count of samples upto each bucket,
// keyed by the bucket's lower edge. The last non-empty bucket is
// keyed as "+".
func (h *Histogram) Buckets() map[string]int64 {
	m := make(map[string]int64)
	last := -1
	for i := len(h.buckets) - 1; i >= 0; i-- {
		if h.buckets[i] > 0 {
			last = i
			break
		}
	}
	cumm := int64(0)
	for j := 0; j <= last; j++ {
		cumm += h.buckets[j]
		if j == last {
			m["+"] = cumm
		} else {
			m[strconv.Itoa(int(h.from+(int64(j)*h.width)))] = cumm
		}
	}
	return m
}

// Fullstats include mean, variance and standard deviation along with
// cumulative buckets.
func (h *Histogram) Fullstats() map[string]interface{} {
	buckets := make(map[string]interface{})
	for k, v := range h.Buckets() {
		buckets[k] = v
	}
	return map[string]interface{}{
		"samples":     h.Samples(),
		"min":         h.Min(),
		"max":         h.Max(),
		"mean":        h.Mean(),
		"variance":    h.Variance(),
		"stddeviance": h.SD(),
		"histogram":   buckets,
	}
}
