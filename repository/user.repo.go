package repository

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"coursehub/models"
)

// UserRepository is the credential store. Password hashing happens inside
// Create and UpdatePassword, exactly once per write path; callers always pass
// the plain password and never hash themselves.
type UserRepository interface {
	Create(name, email, plainPassword, role string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	ProfileByUserID(userID uint) (*models.UserProfile, error)
	UpdateName(id uint, name string) error
	UpdateEmail(id uint, email string) error
	UpdatePassword(id uint, plainPassword string) error
	UpdateProfilePicture(profileID uint, url string) error
}

type gormUserRepository struct {
	db        *gorm.DB
	saltRound int
}

func NewUserRepository(db *gorm.DB, saltRound int) UserRepository {
	return &gormUserRepository{db: db, saltRound: saltRound}
}

// Create persists a new user and its profile in one transaction.
func (r *gormUserRepository) Create(name, email, plainPassword, role string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), r.saltRound)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := &models.UserProfile{UserID: user.ID, ProfilePicture: ""}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *gormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) ProfileByUserID(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormUserRepository) UpdateName(id uint, name string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("name", name).Error
}

func (r *gormUserRepository) UpdateEmail(id uint, email string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("email", email).Error
}

func (r *gormUserRepository) UpdatePassword(id uint, plainPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), r.saltRound)
	if err != nil {
		return err
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password", string(hashed)).Error
}

func (r *gormUserRepository) UpdateProfilePicture(profileID uint, url string) error {
	return r.db.Model(&models.UserProfile{}).Where("id = ?", profileID).Update("profile_picture", url).Error
}
