package dtos

import (
	"github.com/poofware/mono-repo/backend/shared/go-models"
)

// User is the account view returned to its holder.
type User struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	PhoneNumber     *string         `json:"phone_number,omitempty"`
	Role            models.UserRole `json:"role"`
	BusinessName    string          `json:"business_name"`
	BusinessAddress string          `json:"business_address"`
	City            string          `json:"city"`
	State           string          `json:"state"`
	ZipCode         string          `json:"zip_code"`
	LastLoginAt     *string         `json:"last_login_at"`
	CreatedAt       string          `json:"created_at"`
}

func NewUserFromModel(u *models.User) User {
	return User{
		ID:              u.ID.String(),
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PhoneNumber:     u.PhoneNumber,
		Role:            u.Role,
		BusinessName:    u.BusinessName,
		BusinessAddress: u.BusinessAddress,
		City:            u.City,
		State:           u.State,
		ZipCode:         u.ZipCode,
		LastLoginAt:     FormatTimePtr(u.LastLoginAt),
		CreatedAt:       FormatTime(u.CreatedAt),
	}
}
