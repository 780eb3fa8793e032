package repository

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"coursehub/models"
)

// OTPTTL is how long an issued code stays valid. The sweeper deletes anything
// older; Verify itself does not check, so a code keeps working until the next
// sweep fires.
const OTPTTL = 3 * time.Minute

type OTPRepository interface {
	Issue(email, code string, payload *models.OTPPayload) (*models.OTPRecord, error)
	// PendingExists reports whether an unexpired record is already waiting for
	// this email. Only the registration flow rejects duplicates.
	PendingExists(email string) (bool, error)
	Verify(email, code string) (*models.OTPRecord, error)
	Consume(email, code string) error
	SweepExpired(now time.Time) (int64, error)
}

type gormOTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &gormOTPRepository{db: db}
}

func (r *gormOTPRepository) Issue(email, code string, payload *models.OTPPayload) (*models.OTPRecord, error) {
	record := &models.OTPRecord{Email: email, Code: code}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		record.Payload = raw
	}
	if err := r.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *gormOTPRepository) PendingExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.OTPRecord{}).
		Where("email = ? AND created_at > ?", email, time.Now().Add(-OTPTTL)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormOTPRepository) Verify(email, code string) (*models.OTPRecord, error) {
	var record models.OTPRecord
	if err := r.db.Where("email = ? AND code = ?", email, code).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Consume removes the matched record. Required after every successful use so
// a code cannot be replayed.
func (r *gormOTPRepository) Consume(email, code string) error {
	return r.db.Unscoped().
		Where("email = ? AND code = ?", email, code).
		Delete(&models.OTPRecord{}).Error
}

// SweepExpired hard-deletes every record older than OTPTTL in one statement.
func (r *gormOTPRepository) SweepExpired(now time.Time) (int64, error) {
	result := r.db.Unscoped().
		Where("created_at < ?", now.Add(-OTPTTL)).
		Delete(&models.OTPRecord{})
	return result.RowsAffected, result.Error
}
