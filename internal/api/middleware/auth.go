package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventdesk/reservations/internal/core/domain"
)

const (
	claimsKey = "claims"
	// legacyTokenField is the JSON body, form or query field older clients
	// send the session token in.
	legacyTokenField = "token"
	// maxPeekBytes bounds how much of a JSON body is read to find the token.
	maxPeekBytes = 1 << 20
)

// Authorizer resolves a raw token into claims for a required role.
type Authorizer interface {
	Authorize(token string, required domain.Role) (domain.Claims, error)
}

// Auth admits only requests carrying a valid token for the required role
// and stores the resolved claims on the context. Rejections are returned as
// domain errors for the central error handler.
func Auth(gate Authorizer, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return err
			}

			claims, err := gate.Authorize(token, required)
			if err != nil {
				return err
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}

func SetClaims(c echo.Context, claims domain.Claims) {
	c.Set(claimsKey, claims)
}

// Claims returns the claims stored by Auth.
func Claims(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(domain.Claims)
	return claims, ok
}

// extractToken prefers the Authorization header and falls back to the
// legacy token field, in a JSON body first and then form or query. An empty
// result is left for the gate to reject.
func extractToken(c echo.Context) (string, error) {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if header != "" {
		scheme, token, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "bearer") {
			return "", domain.ErrInvalidToken
		}
		return strings.TrimSpace(token), nil
	}
	if token := jsonBodyToken(c.Request()); token != "" {
		return token, nil
	}
	return c.FormValue(legacyTokenField), nil
}

// jsonBodyToken reads the token field of a JSON body and puts the body back
// for the handler's Bind.
func jsonBodyToken(req *http.Request) string {
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}
	rest := req.Body
	raw, err := io.ReadAll(io.LimitReader(rest, maxPeekBytes))
	req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), rest))
	if err != nil {
		return ""
	}

	var body struct {
		Token string `json:"token"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.Token)
}
