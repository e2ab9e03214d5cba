package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier-backend/api/responses"
	"github.com/atelierhq/atelier-backend/pkg/config"
	pkgerrors "github.com/atelierhq/atelier-backend/pkg/errors"
	"github.com/atelierhq/atelier-backend/pkg/logger"
	"github.com/atelierhq/atelier-backend/pkg/session"
)

const cartTokenHeader = "X-Cart-Token"

// CartSession binds every request to a cart session. A valid token on the
// request is honored; anything else gets a fresh session minted on the spot.
// The active token is always echoed back so clients can persist it.
func CartSession(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := uuid.Nil

			token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
			if token != "" {
				claims, err := session.Parse(cfg, token)
				if err == nil {
					sessionID = claims.SessionID
				} else if logg != nil {
					ctx := logg.WithField(r.Context(), "reason", err.Error())
					logg.Warn(ctx, "cart session token rejected, minting a new session")
				}
			}

			if sessionID == uuid.Nil {
				sessionID = uuid.New()
				minted, err := session.Mint(cfg, time.Now(), sessionID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint cart session"))
					return
				}
				token = minted
			}

			w.Header().Set(cartTokenHeader, token)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSessionID(ctx, sessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
