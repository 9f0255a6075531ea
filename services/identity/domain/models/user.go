package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is a user's permission level within their shop.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// User is a staff account. Email is globally unique so login does not need a
// shop qualifier.
type User struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser constructs a User with a bcrypt-hashed password.
func NewUser(shopID uuid.UUID, email, name, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if role != RoleOwner && role != RoleMember {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		ShopID:       shopID,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword reports whether the candidate matches the stored hash.
func (u *User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// IsOwner reports whether this user manages the shop.
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}
