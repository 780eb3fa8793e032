package models

import "gorm.io/gorm"

// Enrollment links a UserProfile to a Course. The composite unique index is
// the store-level backstop for the at-most-one-enrollment invariant; the
// application-level check alone loses the check-then-insert race.
type Enrollment struct {
	gorm.Model
	UserProfileID uint `gorm:"not null;uniqueIndex:idx_enrollment_profile_course" json:"user_profile_id"`
	CourseID      uint `gorm:"not null;uniqueIndex:idx_enrollment_profile_course" json:"course_id"`
}
