package resource

import (
	"testing"

	"github.com/shashiranjanraj/electrostore/pkg/orm"
	"github.com/stretchr/testify/assert"
)

type item struct{ N int }

func double(i item) Map { return Map{"n": i.N * 2} }

func TestMany(t *testing.T) {
	assert.Equal(t, []Map{{"n": 2}, {"n": 4}}, Many([]item{{1}, {2}}, double))
	assert.NotNil(t, Many[item](nil, double))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional[item](nil, double))
	assert.Equal(t, Map{"n": 6}, Optional(&item{3}, double))
}

func TestPaged(t *testing.T) {
	out := Paged(orm.Page[item]{Items: []item{{5}}, Page: 2, PerPage: 1, Total: 3, LastPage: 3, HasNext: true, HasPrev: true}, double)
	assert.Equal(t, []Map{{"n": 10}}, out["items"])
	assert.Equal(t, 2, out["page"])
	assert.Equal(t, true, out["has_previous"])
}
