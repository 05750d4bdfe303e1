package users

import (
	"strings"
	"time"

	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	Address    *string   `json:"address,omitempty"`
	City       *string   `json:"city,omitempty"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Avatar     *string   `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
}

// ProfileInput updates the display fields of a profile.
type ProfileInput struct {
	Name  string
	Phone *string
}

// AddressDTO is the delivery address on file.
type AddressDTO struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// AddressInput replaces the delivery address. Address and City are required.
type AddressInput struct {
	Address    string
	City       string
	PostalCode string
}

// StatsDTO is the account summary shown on the profile page.
type StatsDTO struct {
	OrderCount     int64           `json:"total_orders"`
	FavoritesCount int64           `json:"favorites_count"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		PostalCode: u.PostalCode,
		Avatar:     u.AvatarURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         strings.TrimSpace(c.Name),
		Email:        NormalizeEmail(c.Email),
		PasswordHash: c.PasswordHash,
	}
}

// NormalizeEmail trims and lowercases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func addressFromModel(u *models.User) AddressDTO {
	return AddressDTO{
		Address:    deref(u.Address),
		City:       deref(u.City),
		PostalCode: deref(u.PostalCode),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
