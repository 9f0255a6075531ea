package domain

import "errors"

var (
	ErrShopNotFound       = errors.New("shop not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidShop        = errors.New("invalid shop settings")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInviteCode  = errors.New("invalid invite code")
	ErrNotOwner           = errors.New("only the shop owner may do this")
	ErrOwnerRemoval       = errors.New("the shop owner cannot be removed")
)
