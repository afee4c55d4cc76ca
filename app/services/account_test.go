package services_test

import (
	"testing"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration() services.RegisterInput {
	return services.RegisterInput{
		Username:  "grace",
		Email:     "grace@example.com",
		FirstName: "Grace",
		LastName:  "Hopper",
		Password1: "cobol-1959",
		Password2: "cobol-1959",
	}
}

func TestAccount_RegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Accounts.Register(f.ctx, registration())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "cobol-1959", u.Password)

	var profiles int64
	f.db.Model(&models.UserProfile{}).Where("user_id = ?", u.ID).Count(&profiles)
	assert.EqualValues(t, 1, profiles)

	got, err := f.svc.Accounts.Authenticate(f.ctx, services.LoginInput{Username: "grace", Password: "cobol-1959"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = f.svc.Accounts.Authenticate(f.ctx, services.LoginInput{Username: "GRACE@example.com", Password: "cobol-1959"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Accounts.Authenticate(f.ctx, services.LoginInput{Username: "grace", Password: "wrong-password"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = f.svc.Accounts.Authenticate(f.ctx, services.LoginInput{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAccount_RegisterValidation(t *testing.T) {
	f := newFixture(t)

	in := registration()
	in.Password2 = "different"
	in.Email = "nope"
	_, err := f.svc.Accounts.Register(f.ctx, in)
	ve, ok := services.IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "password2")
	assert.Contains(t, ve.Fields, "email")

	_, err = f.svc.Accounts.Register(f.ctx, registration())
	require.NoError(t, err)

	_, err = f.svc.Accounts.Register(f.ctx, registration())
	ve, ok = services.IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "email")
}

func TestAccount_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")

	p, err := f.svc.Accounts.Profile(f.ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, p.Profile)

	updated, err := f.svc.Accounts.UpdateProfile(f.ctx, u.ID, services.ProfileInput{
		FirstName:   "Alice",
		LastName:    "Liddell",
		Email:       "alice@wonderland.example",
		PhoneNumber: "+1 555 0100",
		Address:     "Rabbit Hole 1",
		DateOfBirth: "1852-05-04",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)

	reloaded, err := f.svc.Accounts.User(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@wonderland.example", reloaded.Email)
	require.NotNil(t, reloaded.Profile)
	assert.Equal(t, "+1 555 0100", reloaded.Profile.PhoneNumber)
	require.NotNil(t, reloaded.Profile.DateOfBirth)
	assert.Equal(t, 1852, reloaded.Profile.DateOfBirth.Year())

	in, err := f.svc.Checkout.Defaults(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rabbit Hole 1", in.ShippingAddress)

	_, err = f.svc.Accounts.UpdateProfile(f.ctx, u.ID, services.ProfileInput{Email: "alice@wonderland.example", PhoneNumber: "+1 555 0100 0100 0"})
	ve, ok := services.IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "phone_number")
}
