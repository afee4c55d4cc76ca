package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/services"
	_ "github.com/shashiranjanraj/electrostore/database/migrations"
	"github.com/shashiranjanraj/electrostore/database/seeders"
	"github.com/shashiranjanraj/electrostore/pkg/database"
	"github.com/shashiranjanraj/electrostore/pkg/migration"
)

func TestRunAllIsIdempotent(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)

	ctx := context.Background()
	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, db, &out))
	require.NoError(t, seeders.RunAll(ctx, db, nil))

	assert.Equal(t, []string{"catalog", "demo-user"}, seeders.Names())
	assert.Contains(t, out.String(), "catalog … done")

	var categories, products, users int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(6), categories)
	assert.Equal(t, int64(17), products)
	assert.Equal(t, int64(1), users)

	var p models.Product
	require.NoError(t, db.Where("slug = ?", "nothing-phone-2a").First(&p).Error)
	assert.Equal(t, "349.00", p.Price.StringFixed(2))

	u, err := services.NewAccountService(db).Authenticate(ctx, services.LoginInput{
		Username: seeders.DemoUsername,
		Password: seeders.DemoPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "demo@electrostore.local", u.Email)
}
