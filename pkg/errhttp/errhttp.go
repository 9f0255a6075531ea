// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/fournil/pkg/httpx"
	catdomain "github.com/ghuser/fournil/services/catalog/domain"
	exportdomain "github.com/ghuser/fournil/services/export/domain"
	iddomain "github.com/ghuser/fournil/services/identity/domain"
	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	proddomain "github.com/ghuser/fournil/services/production/domain"
	recdomain "github.com/ghuser/fournil/services/recipe/domain"
	wastedomain "github.com/ghuser/fournil/services/waste/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	// 404: the addressed resource does not exist for this shop
	case errors.Is(err, invdomain.ErrIngredientNotFound),
		errors.Is(err, recdomain.ErrRecipeNotFound),
		errors.Is(err, proddomain.ErrRunNotFound),
		errors.Is(err, catdomain.ErrProductNotFound),
		errors.Is(err, catdomain.ErrSaleNotFound),
		errors.Is(err, wastedomain.ErrWasteLogNotFound),
		errors.Is(err, iddomain.ErrShopNotFound),
		errors.Is(err, iddomain.ErrUserNotFound),
		errors.Is(err, exportdomain.ErrUnknownEntity):
		return http.StatusNotFound

	// 409: the request conflicts with current state
	case errors.Is(err, proddomain.ErrRunAlreadyCompleted),
		errors.Is(err, proddomain.ErrCompletedRunImmutable),
		errors.Is(err, iddomain.ErrEmailTaken):
		return http.StatusConflict

	// 401: authentication failed
	case errors.Is(err, iddomain.ErrInvalidCredentials),
		errors.Is(err, iddomain.ErrInvalidInviteCode):
		return http.StatusUnauthorized

	// 403: authenticated but not allowed
	case errors.Is(err, iddomain.ErrNotOwner):
		return http.StatusForbidden

	// 422: the request is well-formed but violates a domain rule
	case errors.Is(err, invdomain.ErrInvalidIngredient),
		errors.Is(err, invdomain.ErrInsufficientStock),
		errors.Is(err, recdomain.ErrInvalidRecipe),
		errors.Is(err, recdomain.ErrUnitMismatch),
		errors.Is(err, proddomain.ErrInvalidRun),
		errors.Is(err, catdomain.ErrInvalidProduct),
		errors.Is(err, catdomain.ErrEmptySale),
		errors.Is(err, wastedomain.ErrInvalidWasteLog),
		errors.Is(err, iddomain.ErrOwnerRemoval),
		errors.Is(err, iddomain.ErrInvalidShop),
		errors.Is(err, exportdomain.ErrUnknownFormat):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}
