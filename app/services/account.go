package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/auth"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/validate"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username  string `form:"username"   json:"username"   validate:"required,max=150"`
	Email     string `form:"email"      json:"email"      validate:"required,email,max=254"`
	FirstName string `form:"first_name" json:"first_name" validate:"required,max=30"`
	LastName  string `form:"last_name"  json:"last_name"  validate:"required,max=30"`
	Password1 string `form:"password1"  json:"password1"  validate:"required,min=8"`
	Password2 string `form:"password2"  json:"password2"  validate:"required,eqfield=Password1"`
}

// LoginInput accepts a username or an email address.
type LoginInput struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// ProfileInput updates both the account names and the profile.
type ProfileInput struct {
	FirstName   string `form:"first_name"    json:"first_name"    validate:"max=30"`
	LastName    string `form:"last_name"     json:"last_name"     validate:"max=30"`
	Email       string `form:"email"         json:"email"         validate:"required,email,max=254"`
	PhoneNumber string `form:"phone_number"  json:"phone_number"  validate:"omitempty,max=15"`
	Address     string `form:"address"       json:"address"`
	DateOfBirth string `form:"date_of_birth" json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// AccountService handles registration, login and the profile page.
type AccountService struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db, users: repositories.NewUserRepository(db)}
}

// Register creates a user and an empty profile in one transaction.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.User{}, invalid(errs)
	}

	errs := map[string]string{}
	if taken, err := s.users.UsernameTaken(ctx, in.Username); err != nil {
		return models.User{}, err
	} else if taken {
		errs["username"] = "A user with that username already exists."
	}
	if taken, err := s.users.EmailTaken(ctx, in.Email, 0); err != nil {
		return models.User{}, err
	} else if taken {
		errs["email"] = "A user with that email already exists."
	}
	if len(errs) > 0 {
		return models.User{}, invalid(errs)
	}

	hash, err := auth.HashPassword(in.Password1)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
		Profile:   &models.UserProfile{},
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.users.WithTx(tx).Create(ctx, &u)
	})
	if err != nil {
		return models.User{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords are
// the same ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, in LoginInput) (models.User, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.User{}, invalid(errs)
	}
	u, err := s.users.FindByLogin(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// User loads an account with its profile.
func (s *AccountService) User(ctx context.Context, userID uint) (models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	return u, notFound(err)
}

// Profile returns the account and its profile, creating the profile for
// accounts that predate it.
func (s *AccountService) Profile(ctx context.Context, userID uint) (models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return u, notFound(err)
	}
	if u.Profile == nil {
		p, err := s.users.Profile(ctx, userID)
		if err != nil {
			return u, err
		}
		u.Profile = &p
	}
	return u, nil
}

// UpdateProfile writes names, email and profile fields together.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (models.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.User{}, invalid(errs)
	}
	if taken, err := s.users.EmailTaken(ctx, in.Email, userID); err != nil {
		return models.User{}, err
	} else if taken {
		return models.User{}, invalid(map[string]string{"email": "A user with that email already exists."})
	}

	var dob *time.Time
	if in.DateOfBirth != "" {
		t, err := time.Parse(dateLayout, in.DateOfBirth)
		if err != nil {
			return models.User{}, invalid(map[string]string{"date_of_birth": "The date of birth is not a valid date."})
		}
		dob = &t
	}

	u, err := s.Profile(ctx, userID)
	if err != nil {
		return u, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		u.FirstName, u.LastName, u.Email = in.FirstName, in.LastName, in.Email
		if err := users.UpdateNames(ctx, &u); err != nil {
			return err
		}

		u.Profile.PhoneNumber = in.PhoneNumber
		u.Profile.Address = strings.TrimSpace(in.Address)
		u.Profile.DateOfBirth = dob
		return users.SaveProfile(ctx, u.Profile)
	})
	return u, err
}
