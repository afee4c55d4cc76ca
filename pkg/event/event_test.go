package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFire_OrderAndPanicIsolation(t *testing.T) {
	Flush()
	t.Cleanup(Flush)

	var got []string
	Listen("order.placed", func(_ context.Context, p interface{}) { got = append(got, "log:"+p.(string)) })
	Listen("order.placed", func(context.Context, interface{}) { panic("boom") })
	Listen("order.placed", func(_ context.Context, p interface{}) { got = append(got, "metrics:"+p.(string)) })

	Fire(context.Background(), "order.placed", "7")

	assert.Equal(t, []string{"log:7", "metrics:7"}, got)
	assert.True(t, Has("order.placed"))
	assert.False(t, Has("review.submitted"))
}
