package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"stockledger/internal/auth"
	"stockledger/internal/handler"
	"stockledger/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	inventoryHandler *handler.InventoryHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Re-authentication target for rejected requests. Rendering the actual
	// login page is the presentation layer's concern.
	e.GET("/login", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"message": "authentication required",
		})
	})

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Gated routes: the session cookie is parsed, its signature verified and
	// the embedded handle validated against the session table. Any failure
	// redirects to /login before a handler runs, so no state is touched.
	gated := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.SessionContextKey,
		TokenLookup: "cookie:" + auth.SessionCookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.ValidateCookie(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusSeeOther, "/login")
		},
	}))

	gated.GET("/me", inventoryHandler.Me)
	gated.GET("/products", inventoryHandler.List)
	gated.POST("/products", inventoryHandler.Add)
	gated.POST("/products/:id/increment", inventoryHandler.Increment)
	gated.POST("/products/:id/decrement", inventoryHandler.Decrement)
	gated.DELETE("/products/:id", inventoryHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
