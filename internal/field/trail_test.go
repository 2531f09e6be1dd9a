package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrailEvictsOldest(t *testing.T) {
	tr := NewTrail(3)
	for i := 0; i < 5; i++ {
		tr.Push(Sample{Depth: float64(i)})
	}

	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, []Sample{{Depth: 2}, {Depth: 3}, {Depth: 4}}, tr.Samples())
	assert.Equal(t, Sample{Depth: 2}, tr.At(0))
}

func TestTrailReset(t *testing.T) {
	tr := NewTrail(2)
	tr.Push(Sample{X: 1})
	tr.Reset()

	assert.Zero(t, tr.Len())
	assert.Equal(t, 2, tr.Cap())

	tr.Push(Sample{X: 9})
	assert.Equal(t, []Sample{{X: 9}}, tr.Samples())
}

func TestZeroCapacityTrailStaysEmpty(t *testing.T) {
	tr := NewTrail(0)
	tr.Push(Sample{X: 1})
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.Samples())
}

func TestTrailCloneIsIndependent(t *testing.T) {
	tr := NewTrail(2)
	tr.Push(Sample{X: 1})

	c := tr.clone()
	tr.Push(Sample{X: 2})
	tr.Push(Sample{X: 3})

	assert.Equal(t, []Sample{{X: 1}}, c.Samples())
}
