package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// ParseCourseLevel normalizes a level string to its canonical value.
// Unknown values are rejected instead of being stored unset.
func ParseCourseLevel(s string) (CourseLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LevelBeginner):
		return LevelBeginner, nil
	case string(LevelIntermediate):
		return LevelIntermediate, nil
	case string(LevelAdvanced):
		return LevelAdvanced, nil
	}
	return "", fmt.Errorf("invalid course level %q", s)
}

type Course struct {
	gorm.Model
	Name        string      `gorm:"not null" json:"name"`
	Description string      `gorm:"not null" json:"description"`
	Price       float64     `gorm:"not null" json:"price"`
	Level       CourseLevel `gorm:"size:20;not null;default:'beginner'" json:"level"`
	Instructor  string      `gorm:"not null" json:"instructor"`
	Duration    float64     `gorm:"default:0" json:"duration"` // minutes
	Image       string      `gorm:"default:''" json:"image"`
	Rating      float64     `gorm:"default:3.5" json:"rating"`
	CreatedByID uint        `gorm:"index;not null" json:"created_by"`
}
