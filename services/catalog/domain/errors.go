package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrEmptySale       = errors.New("sale has no items")
)
