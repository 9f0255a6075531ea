package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/fournil/pkg/httpx"
	"github.com/ghuser/fournil/pkg/logger"
)

// SessionName is the cookie name used for authenticated sessions.
const SessionName = "fournil_session"

// Session value keys. Both are written at login and read by RequireAuth.
const (
	SessionShopIDKey = "shop_id"
	SessionUserIDKey = "user_id"
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the shop and user IDs, and injects them
// into the request context. Returns 401 Unauthorized if the session is missing,
// invalid, or lacks a valid shop_id.
//
// After this middleware, handlers can safely call auth.ShopIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			shopIDStr, ok := session.Values[SessionShopIDKey].(string)
			if !ok || shopIDStr == "" {
				log.WarnContext(r.Context(), "session missing shop_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			shopID, err := uuid.Parse(shopIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid shop_id in session", "shop_id", shopIDStr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			ctx := WithShopID(r.Context(), shopID)

			// user_id is optional in the context; tolerate legacy sessions
			// that only carry the shop.
			if userIDStr, ok := session.Values[SessionUserIDKey].(string); ok && userIDStr != "" {
				if userID, err := uuid.Parse(userIDStr); err == nil {
					ctx = WithUserID(ctx, userID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
