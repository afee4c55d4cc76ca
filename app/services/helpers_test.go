package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/services"
	_ "github.com/shashiranjanraj/electrostore/database/migrations"
	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"github.com/shashiranjanraj/electrostore/pkg/database"
	"github.com/shashiranjanraj/electrostore/pkg/event"
	"github.com/shashiranjanraj/electrostore/pkg/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	svc *services.Services
	cat models.Category
	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)

	cache.Use(cache.NewMemoryStore())
	event.Flush()
	t.Cleanup(event.Flush)

	f := &fixture{t: t, ctx: context.Background(), db: db, svc: services.New(db)}
	f.cat = models.Category{Name: "Phones", Slug: "phones"}
	require.NoError(t, db.Create(&f.cat).Error)
	return f
}

func (f *fixture) user(name string) models.User {
	f.t.Helper()
	u := models.User{
		Username:  name,
		Email:     name + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Password:  "x",
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) product(name, price string, stock int) models.Product {
	f.t.Helper()
	f.seq++
	p := models.Product{
		Name:          name,
		Slug:          fmt.Sprintf("product-%d", f.seq),
		Description:   name + " description",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
		CategoryID:    f.cat.ID,
	}
	require.NoError(f.t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) stock(id uint) int {
	f.t.Helper()
	var p models.Product
	require.NoError(f.t, f.db.First(&p, id).Error)
	return p.StockQuantity
}

func (f *fixture) fill(userID uint, productID uint, qty int) {
	f.t.Helper()
	for i := 0; i < qty; i++ {
		_, err := f.svc.Cart.AddItem(f.ctx, userID, productID)
		require.NoError(f.t, err)
	}
}

func validCheckout() services.CheckoutInput {
	return services.CheckoutInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Phone:           "+44 20 79460018",
		ShippingAddress: "12 Analytical Row, London",
	}
}
