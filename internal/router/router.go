package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"vidtube/internal/auth"
	"vidtube/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	videoHandler *handler.VideoHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/channels/:username", userHandler.ChannelProfile)
	api.GET("/channels/:username/videos", videoHandler.ListByChannel)
	api.GET("/videos/:id", videoHandler.Get)

	// Secured routes (require a valid access token). Verification stays in the
	// auth package; the middleware stores the resolved user ID in context.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ,cookie:accessToken",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.VerifyAccessToken(tokenString)
		},
	}))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.POST("/auth/change-password", authHandler.ChangePassword)

	secured.GET("/users/me", userHandler.Me)
	secured.PATCH("/users/me", userHandler.UpdateAccount)
	secured.PATCH("/users/me/avatar", userHandler.UpdateAvatar)
	secured.PATCH("/users/me/cover-image", userHandler.UpdateCoverImage)
	secured.GET("/users/history", userHandler.WatchHistory)

	secured.POST("/subscriptions/:username", subscriptionHandler.Toggle)
	secured.POST("/videos", videoHandler.Publish)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
