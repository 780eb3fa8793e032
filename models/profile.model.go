package models

import "gorm.io/gorm"

// UserProfile extends a User with display data and owns the user's enrollments.
// Created together with its User when an OTP verification succeeds.
type UserProfile struct {
	gorm.Model
	UserID         uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	ProfilePicture string `gorm:"default:''" json:"profile_picture"`
}
