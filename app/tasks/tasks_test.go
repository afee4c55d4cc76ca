package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/app/tasks"
	_ "github.com/shashiranjanraj/electrostore/database/migrations"
	"github.com/shashiranjanraj/electrostore/pkg/database"
	"github.com/shashiranjanraj/electrostore/pkg/middleware"
	"github.com/shashiranjanraj/electrostore/pkg/migration"
	"github.com/shashiranjanraj/electrostore/pkg/schedule"
)

func TestLowStock(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)

	cat := models.Category{Name: "Audio", Slug: "audio"}
	require.NoError(t, db.Create(&cat).Error)
	for i, stock := range []int{0, 3, 5, 6, 40} {
		p := models.Product{
			Name:          "P",
			Slug:          "p-" + string(rune('a'+i)),
			Price:         decimal.NewFromInt(10),
			StockQuantity: stock,
			IsActive:      true,
			CategoryID:    cat.ID,
		}
		require.NoError(t, db.Create(&p).Error)
	}
	hidden := models.Product{Name: "Old", Slug: "old", Price: decimal.NewFromInt(1), CategoryID: cat.ID}
	require.NoError(t, db.Create(&hidden).Error)

	low, err := repositories.NewProductRepository(db).LowStock(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, low, 3)
	assert.Equal(t, []int{0, 3, 5}, []int{low[0].StockQuantity, low[1].StockQuantity, low[2].StockQuantity})

	s := schedule.New()
	tasks.Register(s, db, middleware.NewLimiter(10, time.Minute), 5)
	assert.Len(t, s.List(), 2)
	assert.Equal(t, 2, s.RunDue(context.Background(), time.Now()))
	s.Wait()
}
