package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/internal/server/handlers"
	"github.com/gorilla/mux"
)

type UserService interface {
	ValidateUser(ctx context.Context, id, email string) (user.User, error)
}

// ValidateUser middleware will propagate a valid user within request
// context. Use `user.FromContext` to read it.
func ValidateUser(identityHeaderKeyID, identityHeaderKeyEmail string, userSvc UserService) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(identityHeaderKeyID)
			if userID == "" {
				handlers.WriteJSONError(rw, http.StatusBadRequest, "identity header is empty")
				return
			}
			userEmail := r.Header.Get(identityHeaderKeyEmail)

			usr, err := userSvc.ValidateUser(r.Context(), userID, userEmail)
			if err != nil {
				if errors.Is(err, user.ErrNoUserInformation) || errors.As(err, new(user.InvalidError)) {
					handlers.WriteJSONError(rw, http.StatusBadRequest, err.Error())
					return
				}
				handlers.WriteJSONError(rw, http.StatusInternalServerError, err.Error())
				return
			}
			r = r.WithContext(user.NewContext(r.Context(), usr))
			h.ServeHTTP(rw, r)
		})
	}
}
