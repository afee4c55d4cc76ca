package graphql_test

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogql "github.com/shashiranjanraj/electrostore/app/graphql"
	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/services"
	_ "github.com/shashiranjanraj/electrostore/database/migrations"
	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"github.com/shashiranjanraj/electrostore/pkg/database"
	"github.com/shashiranjanraj/electrostore/pkg/migration"
)

func newSchema(t *testing.T) graphql.Schema {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)
	cache.Use(cache.NewMemoryStore())

	audio := models.Category{Name: "Audio", Slug: "audio"}
	require.NoError(t, db.Create(&audio).Error)
	for _, p := range []models.Product{
		{Name: "Studio Headphones", Slug: "studio-headphones", Price: decimal.RequireFromString("149.99"), StockQuantity: 4, IsActive: true},
		{Name: "Pocket Speaker", Slug: "pocket-speaker", Price: decimal.RequireFromString("39.50"), IsActive: true},
		{Name: "Retired Speaker", Slug: "retired-speaker", Price: decimal.RequireFromString("9.00"), StockQuantity: 1},
	} {
		p.CategoryID = audio.ID
		require.NoError(t, db.Create(&p).Error)
	}

	schema, err := catalogql.NewSchema(services.New(db).Catalog)
	require.NoError(t, err)
	return schema
}

func query(t *testing.T, schema graphql.Schema, q string) map[string]interface{} {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: schema, RequestString: q, Context: context.Background()})
	require.Empty(t, res.Errors)
	return res.Data.(map[string]interface{})
}

func TestProductsQuery(t *testing.T) {
	schema := newSchema(t)

	data := query(t, schema, `{ products(category: "audio", sort: "price_low") { total page items { slug price inStock category { slug } } } }`)
	page := data["products"].(map[string]interface{})
	assert.Equal(t, 2, page["total"])
	assert.Equal(t, 1, page["page"])

	items := page["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "pocket-speaker", first["slug"])
	assert.Equal(t, "39.50", first["price"])
	assert.Equal(t, false, first["inStock"])
	assert.Equal(t, map[string]interface{}{"slug": "audio"}, first["category"])
}

func TestProductAndSearch(t *testing.T) {
	schema := newSchema(t)

	data := query(t, schema, `{ product(slug: "studio-headphones") { name stockQuantity url } search(q: "speaker") { slug } categories { name } }`)
	assert.Equal(t, map[string]interface{}{
		"name": "Studio Headphones", "stockQuantity": 4, "url": "/products/studio-headphones/",
	}, data["product"])
	assert.Equal(t, []interface{}{map[string]interface{}{"slug": "pocket-speaker"}}, data["search"])
	assert.Equal(t, []interface{}{map[string]interface{}{"name": "Audio"}}, data["categories"])
}

func TestInactiveProductIsAnError(t *testing.T) {
	schema := newSchema(t)

	res := graphql.Do(graphql.Params{Schema: schema, RequestString: `{ product(slug: "retired-speaker") { name } }`, Context: context.Background()})
	assert.NotEmpty(t, res.Errors)
}
