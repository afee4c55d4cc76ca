package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/app/services"
)

func init() {
	Register("demo-user", SeedDemoUser)
}

// Demo account credentials, printed by `electrostore seed`.
const (
	DemoUsername = "demo"
	DemoPassword = "electrostore"
)

// SeedDemoUser creates the demo shopper with a filled-in profile.
func SeedDemoUser(ctx context.Context, db *gorm.DB) error {
	taken, err := repositories.NewUserRepository(db).UsernameTaken(ctx, DemoUsername)
	if err != nil || taken {
		return err
	}

	accounts := services.NewAccountService(db)
	u, err := accounts.Register(ctx, services.RegisterInput{
		Username:  DemoUsername,
		Email:     "demo@electrostore.local",
		FirstName: "Demo",
		LastName:  "Shopper",
		Password1: DemoPassword,
		Password2: DemoPassword,
	})
	if err != nil {
		return err
	}

	_, err = accounts.UpdateProfile(ctx, u.ID, services.ProfileInput{
		FirstName:   "Demo",
		LastName:    "Shopper",
		Email:       "demo@electrostore.local",
		PhoneNumber: "+15555550100",
		Address:     "1 Market Street\nSpringfield",
	})
	return err
}
