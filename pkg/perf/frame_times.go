package perf

import "biomorph/internal/util"

// frameTimes is a ring buffer of per-window mean frame times in seconds
type frameTimes struct {
	d []float64
	i int
}

func (ft *frameTimes) init(n int) {
	ft.i = 0
	ft.d = make([]float64, 0, n)
}

func (ft *frameTimes) collect(v float64) {
	if len(ft.d) < cap(ft.d) {
		ft.d = append(ft.d, v)
		return
	}
	ft.d[ft.i] = v
	ft.i = (ft.i + 1) % len(ft.d)
}

func (ft *frameTimes) count() int {
	return len(ft.d)
}

func (ft *frameTimes) average() float64 {
	return util.Mean(ft.d)
}

func (ft *frameTimes) reset() {
	ft.i = 0
	ft.d = ft.d[:0]
}
