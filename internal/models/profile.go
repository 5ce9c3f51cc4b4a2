package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of User.DateOfBirth in profile updates.
const DateLayout = "2006-01-02"

// UpdateProfileRequest lists every profile field a user may edit. Fields left
// out of the body keep their stored value; anything not listed here is
// rejected by the strict decoder.
type UpdateProfileRequest struct {
	UID         string `json:"uid" validate:"required"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=50"`

	PhoneNumber    *string      `json:"phoneNumber" validate:"omitempty,max=30"`
	Bio            *string      `json:"bio" validate:"omitempty,max=500"`
	Website        *string      `json:"website" validate:"omitempty,max=200"`
	Location       *string      `json:"location" validate:"omitempty,max=100"`
	DateOfBirth    *string      `json:"dateOfBirth" validate:"omitempty,dateonly"`
	Gender         *string      `json:"gender" validate:"omitempty,gender"`
	Institution    *string      `json:"institution" validate:"omitempty,max=100"`
	Subject        *string      `json:"subject" validate:"omitempty,max=100"`
	Grade          *string      `json:"grade" validate:"omitempty,max=50"`
	Experience     *string      `json:"experience" validate:"omitempty,max=200"`
	Qualifications *[]string    `json:"qualifications" validate:"omitempty,max=10"`
	Skills         *[]string    `json:"skills" validate:"omitempty,max=20"`
	SocialLinks    *SocialLinks `json:"socialLinks"`
	PhotoURL       *string      `json:"photoURL"`

	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
	SMSNotifications   *bool   `json:"smsNotifications"`
	Language           *string `json:"language" validate:"omitempty,oneof=en bn hi es fr"`
	Theme              *string `json:"theme" validate:"omitempty,oneof=light dark auto"`
}

// ApplyTo copies the fields present in r onto u.
func (r *UpdateProfileRequest) ApplyTo(u *User) error {
	u.DisplayName = strings.TrimSpace(r.DisplayName)
	setString(&u.PhoneNumber, r.PhoneNumber)
	setString(&u.Bio, r.Bio)
	setString(&u.Website, r.Website)
	setString(&u.Location, r.Location)
	setString(&u.Gender, r.Gender)
	setString(&u.Institution, r.Institution)
	setString(&u.Subject, r.Subject)
	setString(&u.Grade, r.Grade)
	setString(&u.Experience, r.Experience)
	setString(&u.PhotoURL, r.PhotoURL)
	setString(&u.Language, r.Language)
	setString(&u.Theme, r.Theme)

	if r.DateOfBirth != nil {
		if *r.DateOfBirth == "" {
			u.DateOfBirth = nil
		} else {
			dob, err := time.Parse(DateLayout, *r.DateOfBirth)
			if err != nil {
				return fmt.Errorf("parse dateOfBirth: %w", err)
			}
			u.DateOfBirth = &dob
		}
	}
	if r.Qualifications != nil {
		u.Qualifications = append([]string{}, *r.Qualifications...)
	}
	if r.Skills != nil {
		u.Skills = append([]string{}, *r.Skills...)
	}
	if r.SocialLinks != nil {
		u.SocialLinks = *r.SocialLinks
	}
	if r.EmailNotifications != nil {
		u.EmailNotifications = *r.EmailNotifications
	}
	if r.PushNotifications != nil {
		u.PushNotifications = *r.PushNotifications
	}
	if r.SMSNotifications != nil {
		u.SMSNotifications = *r.SMSNotifications
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
