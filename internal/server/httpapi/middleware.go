package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// withIdentity requires a "Authorization: Bearer <token>" header, verifies
// the token, and passes the bound identity down via the request context.
// Verification is purely local; the account store is never consulted here.
func (h *Handler) withIdentity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}

		id, err := h.service.VerifyToken(token)
		if err != nil {
			h.writeError(w, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	}
}

func identityFromContext(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}
