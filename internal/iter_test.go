package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterMapSorted(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"zeta": 3, "alpha": 1, "mid": 2}

	var keys []string
	var values []int
	for k, v := range IterMapSorted(m) {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal([]string{"alpha", "mid", "zeta"}, keys)
	assert.Equal([]int{1, 2, 3}, values)
}
