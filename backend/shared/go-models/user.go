package models

import (
	"time"

	"github.com/google/uuid"
)

// UserFields are the profile fields of an account holder. Email is unique
// across all users.
type UserFields struct {
	Email           string   `json:"email" validate:"required,email,max=254"`
	FirstName       string   `json:"first_name" validate:"omitempty,max=100"`
	LastName        string   `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber     *string  `json:"phone_number" validate:"omitempty,e164"`
	Role            UserRole `json:"role" validate:"required,enum"`
	BusinessName    string   `json:"business_name" validate:"omitempty,max=200"`
	BusinessAddress string   `json:"business_address" validate:"omitempty,max=300"`
	City            string   `json:"city" validate:"omitempty,max=100"`
	State           string   `json:"state" validate:"omitempty,max=100"`
	ZipCode         string   `json:"zip_code" validate:"omitempty,max=20"`
	Metadata        Metadata `json:"metadata"`
}

type User struct {
	ID          uuid.UUID  `json:"id"`
	LastLoginAt *time.Time `json:"last_login_at"`
	UserFields
	Timestamps
	Versioned
}

func (u *User) GetID() uuid.UUID { return u.ID }

// GetOwnerID returns the user's own id; a user owns itself.
func (u *User) GetOwnerID() uuid.UUID { return u.ID }

type UserInput struct {
	UserFields
}

type UserUpdate struct {
	Email           *string   `json:"email" validate:"omitempty,email,max=254"`
	FirstName       *string   `json:"first_name" validate:"omitempty,max=100"`
	LastName        *string   `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber     *string   `json:"phone_number" validate:"omitempty,e164"`
	Role            *UserRole `json:"role" validate:"omitempty,enum"`
	BusinessName    *string   `json:"business_name" validate:"omitempty,max=200"`
	BusinessAddress *string   `json:"business_address" validate:"omitempty,max=300"`
	City            *string   `json:"city" validate:"omitempty,max=100"`
	State           *string   `json:"state" validate:"omitempty,max=100"`
	ZipCode         *string   `json:"zip_code" validate:"omitempty,max=20"`
	Metadata        Metadata  `json:"metadata"`
}

func (u *UserUpdate) ApplyTo(user *User) {
	setIf(&user.Email, u.Email)
	setIf(&user.FirstName, u.FirstName)
	setIf(&user.LastName, u.LastName)
	setPtrIf(&user.PhoneNumber, u.PhoneNumber)
	setIf(&user.Role, u.Role)
	setIf(&user.BusinessName, u.BusinessName)
	setIf(&user.BusinessAddress, u.BusinessAddress)
	setIf(&user.City, u.City)
	setIf(&user.State, u.State)
	setIf(&user.ZipCode, u.ZipCode)
	if u.Metadata != nil {
		user.Metadata = u.Metadata.Clone()
	}
}
