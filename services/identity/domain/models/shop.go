package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Shop is the tenant. Every other aggregate carries its ShopID. The invite
// code lets staff join without an email round trip; rotating it revokes
// outstanding invitations.
type Shop struct {
	ID             uuid.UUID
	Name           string
	InviteCode     string
	Currency       string
	DefaultVATRate float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewShop constructs a Shop with a fresh invite code. Currency defaults to
// EUR and the VAT rate to the French reduced food rate.
func NewShop(name, currency string, defaultVATRate float64) (*Shop, error) {
	if name == "" {
		return nil, fmt.Errorf("shop name is required")
	}
	if currency == "" {
		currency = "EUR"
	}
	if defaultVATRate < 0 || defaultVATRate > 100 {
		return nil, fmt.Errorf("vat rate must be between 0 and 100")
	}
	if defaultVATRate == 0 {
		defaultVATRate = 5.5
	}

	now := time.Now().UTC()
	return &Shop{
		ID:             uuid.New(),
		Name:           name,
		InviteCode:     NewInviteCode(),
		Currency:       strings.ToUpper(currency),
		DefaultVATRate: defaultVATRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateSettings replaces the shop's settings. Every field is written, so a
// 0% VAT rate is a valid value rather than "keep the current rate".
func (s *Shop) UpdateSettings(name, currency string, defaultVATRate float64) error {
	if name == "" {
		return fmt.Errorf("shop name is required")
	}
	if len(currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code")
	}
	if defaultVATRate < 0 || defaultVATRate > 100 {
		return fmt.Errorf("vat rate must be between 0 and 100")
	}
	s.Name = name
	s.Currency = strings.ToUpper(currency)
	s.DefaultVATRate = defaultVATRate
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// NewInviteCode returns a short shareable code.
func NewInviteCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// RotateInviteCode invalidates the current code.
func (s *Shop) RotateInviteCode() {
	s.InviteCode = NewInviteCode()
	s.UpdatedAt = time.Now().UTC()
}
