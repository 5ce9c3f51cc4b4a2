package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// SocialLinks holds optional links to a user's external profiles.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty" validate:"omitempty,max=200"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty" validate:"omitempty,max=200"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty" validate:"omitempty,max=200"`
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty" validate:"omitempty,max=200"`
	GitHub    string `json:"github,omitempty" bson:"github,omitempty" validate:"omitempty,max=200"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty" validate:"omitempty,max=200"`
}

// User is the stored account document. It is created on first authentication
// and never hard-deleted.
type User struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UID         string             `json:"uid" bson:"uid"`
	Email       string             `json:"email" bson:"email"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	PhotoURL    string             `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Role        string             `json:"role" bson:"role"`

	PhoneNumber    string      `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Bio            string      `json:"bio,omitempty" bson:"bio,omitempty"`
	Website        string      `json:"website,omitempty" bson:"website,omitempty"`
	Location       string      `json:"location,omitempty" bson:"location,omitempty"`
	DateOfBirth    *time.Time  `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender         string      `json:"gender,omitempty" bson:"gender,omitempty"`
	Institution    string      `json:"institution,omitempty" bson:"institution,omitempty"`
	Subject        string      `json:"subject,omitempty" bson:"subject,omitempty"`
	Grade          string      `json:"grade,omitempty" bson:"grade,omitempty"`
	Experience     string      `json:"experience,omitempty" bson:"experience,omitempty"`
	Qualifications []string    `json:"qualifications" bson:"qualifications"`
	Skills         []string    `json:"skills" bson:"skills"`
	SocialLinks    SocialLinks `json:"socialLinks" bson:"socialLinks"`

	EmailNotifications bool   `json:"emailNotifications" bson:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications" bson:"pushNotifications"`
	SMSNotifications   bool   `json:"smsNotifications" bson:"smsNotifications"`
	Language           string `json:"language" bson:"language"`
	Theme              string `json:"theme" bson:"theme"`

	PostCount      int64 `json:"postCount" bson:"postCount"`
	CommentCount   int64 `json:"commentCount" bson:"commentCount"`
	LikeCount      int64 `json:"likeCount" bson:"likeCount"`
	ShareCount     int64 `json:"shareCount" bson:"shareCount"`
	FollowerCount  int64 `json:"followerCount" bson:"followerCount"`
	FollowingCount int64 `json:"followingCount" bson:"followingCount"`

	IsActive      bool `json:"isActive" bson:"isActive"`
	IsBanned      bool `json:"isBanned" bson:"isBanned"`
	EmailVerified bool `json:"emailVerified" bson:"emailVerified"`

	ProfileCompletionPercentage int  `json:"profileCompletionPercentage" bson:"profileCompletionPercentage"`
	ProfileCompleted            bool `json:"profileCompleted" bson:"profileCompleted"`

	// PasswordHash is only set for accounts created through local registration.
	PasswordHash string `json:"-" bson:"passwordHash,omitempty"`

	LastLoginAt time.Time `json:"lastLoginAt" bson:"lastLoginAt"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewUser returns a user with the defaults applied to freshly authenticated accounts.
func NewUser(uid, email, displayName, photoURL string, now time.Time) *User {
	u := &User{
		UID:                uid,
		Email:              NormalizeEmail(email),
		DisplayName:        strings.TrimSpace(displayName),
		PhotoURL:           photoURL,
		Role:               RoleStudent,
		Qualifications:     []string{},
		Skills:             []string{},
		EmailNotifications: true,
		PushNotifications:  true,
		Language:           "en",
		Theme:              "light",
		IsActive:           true,
		LastLoginAt:        now,
		CreatedAt:          now,
	}
	u.Touch(now)
	return u
}

// Touch stamps the update time and recomputes the derived profile fields.
// Every write path calls it before persisting.
func (u *User) Touch(now time.Time) {
	u.UpdatedAt = now
	u.ProfileCompletionPercentage = u.profileCompletion()
	u.ProfileCompleted = u.ProfileCompletionPercentage >= 70
}

func (u *User) profileCompletion() int {
	fields := []string{
		u.DisplayName,
		u.Email,
		u.Bio,
		u.PhotoURL,
		u.Institution,
		u.Subject,
		u.Location,
	}
	completed := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			completed++
		}
	}
	if u.DateOfBirth != nil && !u.DateOfBirth.IsZero() {
		completed++
	}
	return int(math.Round(float64(completed) / 8 * 100))
}

// UserSummary is the public projection returned for likers.
type UserSummary struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Summary projects u onto its public fields.
func (u *User) Summary() UserSummary {
	return UserSummary{UID: u.UID, DisplayName: u.DisplayName, Email: u.Email, PhotoURL: u.PhotoURL}
}

// NormalizeEmail lowercases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpsertUserRequest is sent by the client right after it authenticates.
type UpsertUserRequest struct {
	UID         string `json:"uid" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=50"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// RegisterRequest creates a local account protected by a password.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdatePhotoRequest replaces a user's avatar.
type UpdatePhotoRequest struct {
	UID      string `json:"uid" validate:"required"`
	PhotoURL string `json:"photoURL" validate:"required,url"`
}
