package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OTPRecord maps an email to a pending one-time code. Registration flows stash
// the pending name/password in Payload so the account is only created once the
// code is verified. Records are removed on consume or by the expiry sweeper.
type OTPRecord struct {
	gorm.Model
	Email   string         `gorm:"size:100;index;not null" json:"email"`
	Code    string         `gorm:"size:6;not null" json:"code"`
	Payload datatypes.JSON `json:"-"`
}

// OTPPayload carries pending registration data between issue and verify.
// Empty for login, email-update and password-reset flows.
type OTPPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r *OTPRecord) DecodePayload() (*OTPPayload, error) {
	payload := &OTPPayload{}
	if len(r.Payload) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(r.Payload, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
