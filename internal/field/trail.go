package field

// Sample is one recorded scene position of a body.
type Sample struct {
	X, Y, Depth float64
}

// Trail is a bounded FIFO of recent samples; pushing onto a full trail evicts the oldest.
type Trail struct {
	buf   []Sample
	start int // Index of the oldest sample
	n     int
}

// NewTrail creates an empty trail holding at most capacity samples.
func NewTrail(capacity int) Trail {
	if capacity < 0 {
		capacity = 0
	}
	return Trail{buf: make([]Sample, capacity)}
}

// Push appends s, evicting the oldest sample when the trail is full.
func (t *Trail) Push(s Sample) {
	if len(t.buf) == 0 {
		return
	}
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = s
		t.n++
		return
	}
	t.buf[t.start] = s
	t.start = (t.start + 1) % len(t.buf)
}

// Len returns the number of samples held.
func (t *Trail) Len() int {
	return t.n
}

// Cap returns the maximum number of samples.
func (t *Trail) Cap() int {
	return len(t.buf)
}

// At returns the i-th sample, 0 being the oldest.
func (t *Trail) At(i int) Sample {
	return t.buf[(t.start+i)%len(t.buf)]
}

// Samples returns a copy of the samples from oldest to newest.
func (t *Trail) Samples() []Sample {
	out := make([]Sample, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Reset empties the trail without releasing its storage.
func (t *Trail) Reset() {
	t.start = 0
	t.n = 0
}

func (t Trail) clone() Trail {
	buf := make([]Sample, len(t.buf))
	copy(buf, t.buf)
	t.buf = buf
	return t
}
