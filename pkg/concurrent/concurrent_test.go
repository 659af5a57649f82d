package concurrent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterPreservesOrder(t *testing.T) {
	in := make([]int, 1000)
	for i := range in {
		in[i] = i
	}
	even := func(v int) bool { return v%2 == 0 }

	for _, workers := range []int{0, 1, 3, 64} {
		out := Filter(in, workers, even)
		assert.Len(t, out, 500)
		for i, v := range out {
			assert.Equal(t, 2*i, v)
		}
	}
	assert.Empty(t, Filter([]int(nil), 4, even))
}
