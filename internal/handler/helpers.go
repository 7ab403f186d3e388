package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"vidtube/internal/auth"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/media"
	"vidtube/internal/service"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// httpError maps a domain error to an echo HTTP error with a stable code.
func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// currentUserID extracts the authenticated user's ID resolved by the JWT
// middleware. Session operations always act on this explicit identity.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get("user").(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return id, nil
}

// optionalViewerID resolves the viewer identity on public routes from the
// Authorization header or access-token cookie. Anonymous viewers get uuid.Nil.
func optionalViewerID(c echo.Context, jwtService *auth.JWTService) uuid.UUID {
	tokenString := ""
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		tokenString = strings.TrimPrefix(h, "Bearer ")
	} else if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		return uuid.Nil
	}

	id, err := jwtService.VerifyAccessToken(tokenString)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// formFile opens a multipart file for a service. The caller closes it.
func formFile(c echo.Context, field string) (*media.File, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &media.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        src,
	}, src, nil
}

// setTokenCookies attaches the pair as HTTP-only secure cookies, mirroring the
// JSON body so browser and non-browser clients both work.
func setTokenCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

// clearTokenCookies expires both token cookies.
func clearTokenCookies(c echo.Context) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}
