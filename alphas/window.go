package alphas

import "math"

// window is a fixed-capacity rolling buffer: pushing onto a full window
// evicts the oldest entry.
type window struct {
	vals []float64
	size int
}

func newWindow(size int) *window {
	if size < 1 {
		size = 1
	}
	return &window{vals: make([]float64, 0, size), size: size}
}

func (w *window) push(v float64) {
	if len(w.vals) == w.size {
		copy(w.vals, w.vals[1:])
		w.vals[len(w.vals)-1] = v
		return
	}
	w.vals = append(w.vals, v)
}

func (w *window) full() bool { return len(w.vals) == w.size }

func (w *window) max() float64 {
	m := math.Inf(-1)
	for _, v := range w.vals {
		if v > m {
			m = v
		}
	}
	return m
}

func (w *window) mean() float64 {
	var sum float64
	for _, v := range w.vals {
		sum += v
	}
	return sum / float64(len(w.vals))
}

// std is the population standard deviation (ddof=0).
func (w *window) std() float64 {
	mean := w.mean()
	var sum float64
	for _, v := range w.vals {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(w.vals)))
}
