package generator

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffledKeepsElements(t *testing.T) {
	g := NewSeeded(7)
	in := []string{"a", "b", "c", "d", "e"}
	out := Shuffled(g, in)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, in)

	sorted := append([]string(nil), out...)
	sort.Strings(sorted)
	assert.Equal(t, in, sorted)
}

func TestSeededIsDeterministic(t *testing.T) {
	a := Shuffled(NewSeeded(42), []int{1, 2, 3, 4, 5, 6})
	b := Shuffled(NewSeeded(42), []int{1, 2, 3, 4, 5, 6})
	assert.Equal(t, a, b)
}

func TestPick(t *testing.T) {
	g := NewSeeded(1)
	_, ok := Pick(g, []int(nil))
	assert.False(t, ok)

	v, ok := Pick(g, []int{9})
	assert.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestIntnBounds(t *testing.T) {
	g := NewSeeded(3)
	assert.Equal(t, 0, g.Intn(0))
	for i := 0; i < 100; i++ {
		n := g.Intn(4)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 4)
	}
}
