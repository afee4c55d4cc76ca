package repositories

import (
	"context"

	"github.com/shashiranjanraj/electrostore/app/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for users and their profiles.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// FindByID looks up a user by primary key, with profile when present.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error
	return user, err
}

// FindByLogin accepts either the username or the email address.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = LOWER(?)", login, login).
		Order("id ASC").
		First(&user).Error
	return user, err
}

// UsernameTaken reports whether another user already has username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

// EmailTaken reports whether a user other than exceptID uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, exceptID).
		Count(&n).Error
	return n > 0, err
}

// Create persists a new user and its profile.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateNames writes the editable account columns.
func (r *UserRepository) UpdateNames(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).Select("first_name", "last_name", "email").Updates(map[string]interface{}{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
	}).Error
}

// Profile returns the user's profile, creating an empty one if missing.
func (r *UserRepository) Profile(ctx context.Context, userID uint) (models.UserProfile, error) {
	db := r.db.WithContext(ctx)

	var p models.UserProfile
	err := db.Where("user_id = ?", userID).First(&p).Error
	if err == nil || !IsNotFound(err) {
		return p, err
	}

	p = models.UserProfile{UserID: userID}
	if err := db.Create(&p).Error; err != nil {
		if again := db.Where("user_id = ?", userID).First(&p).Error; again == nil {
			return p, nil
		}
		return p, err
	}
	return p, nil
}

func (r *UserRepository) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}
