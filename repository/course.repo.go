package repository

import (
	"gorm.io/gorm"

	"coursehub/models"
)

// CoursePageSize is the fixed page size for every course listing.
const CoursePageSize = 5

// CourseFilter mirrors the supported query parameters. Nil numeric fields and
// empty strings mean "no filter". Numeric filters are upper bounds.
type CourseFilter struct {
	Name       string
	Level      string
	Price      *float64
	Duration   *float64
	Rating     *float64
	Instructor string
}

type CourseRepository interface {
	Create(course *models.Course) error
	List(filter CourseFilter, page int) ([]models.Course, error)
	FindByID(id uint) (*models.Course, error)
	// FindOwned scopes the lookup to (id, creator). A course that exists but
	// belongs to someone else is indistinguishable from one that does not
	// exist, so ownership is never leaked.
	FindOwned(id, creatorID uint) (*models.Course, error)
	Update(course *models.Course) error
	DeleteCascade(course *models.Course) error
	FindByIDs(ids []uint, page int) ([]models.Course, error)
}

type gormCourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &gormCourseRepository{db: db}
}

func (r *gormCourseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *gormCourseRepository) List(filter CourseFilter, page int) ([]models.Course, error) {
	if page < 1 {
		page = 1
	}
	query := r.db.Model(&models.Course{})

	if filter.Name != "" {
		query = query.Where("name = ?", filter.Name)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Price != nil {
		query = query.Where("price <= ?", *filter.Price)
	}
	if filter.Duration != nil {
		query = query.Where("duration <= ?", *filter.Duration)
	}
	if filter.Rating != nil {
		query = query.Where("rating <= ?", *filter.Rating)
	}
	if filter.Instructor != "" {
		query = query.Where("LOWER(instructor) LIKE LOWER(?)", "%"+filter.Instructor+"%")
	}

	var courses []models.Course
	err := query.Offset((page - 1) * CoursePageSize).Limit(CoursePageSize).Find(&courses).Error
	return courses, err
}

func (r *gormCourseRepository) FindByID(id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *gormCourseRepository) FindOwned(id, creatorID uint) (*models.Course, error) {
	var course models.Course
	err := r.db.Where("id = ? AND created_by_id = ?", id, creatorID).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *gormCourseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

// DeleteCascade removes the course's enrollments before the course row itself,
// in one transaction, so a failure never leaves orphaned enrollments.
func (r *gormCourseRepository) DeleteCascade(course *models.Course) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(course).Error
	})
}

func (r *gormCourseRepository) FindByIDs(ids []uint, page int) ([]models.Course, error) {
	if page < 1 {
		page = 1
	}
	var courses []models.Course
	err := r.db.Where("id IN ?", ids).
		Offset((page - 1) * CoursePageSize).
		Limit(CoursePageSize).
		Find(&courses).Error
	return courses, err
}
