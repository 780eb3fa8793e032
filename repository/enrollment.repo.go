package repository

import (
	"gorm.io/gorm"

	"coursehub/models"
)

type EnrollmentRepository interface {
	Exists(profileID, courseID uint) (bool, error)
	Create(enrollment *models.Enrollment) error
	ListByProfile(profileID uint) ([]models.Enrollment, error)
}

type gormEnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &gormEnrollmentRepository{db: db}
}

func (r *gormEnrollmentRepository) Exists(profileID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("user_profile_id = ? AND course_id = ?", profileID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the enrollment row. Two concurrent enrolls can both pass the
// Exists check; the unique index on (user_profile_id, course_id) rejects the
// loser here instead.
func (r *gormEnrollmentRepository) Create(enrollment *models.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *gormEnrollmentRepository) ListByProfile(profileID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.Where("user_profile_id = ?", profileID).Find(&enrollments).Error
	return enrollments, err
}
