package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"emotivision/internal/auth"
	"emotivision/internal/config"
	"emotivision/internal/handler"
	"emotivision/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions *session.Manager,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	eventHandler *handler.EventHandler,
	statsHandler *handler.StatsHandler,
	chatHandler *handler.ChatHandler,
	feedHandler *handler.FeedHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Personalization feed routes (shared-secret header)
	feed := e.Group("/api", APIKeyMiddleware(cfg.FeedAPIKey))
	feed.GET("/latest_emotion", feedHandler.LatestEmotion)
	feed.GET("/emotion_trend", feedHandler.EmotionTrend)
	feed.GET("/age_distribution", feedHandler.AgeDistribution)
	feed.GET("/events", feedHandler.Events)
	feed.POST("/push_event", feedHandler.PushEvent)

	// Session routes (JWT + active-session check)
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		}),
		SessionMiddleware(sessions),
	)

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/me", authHandler.Me)

	secured.GET("/profile", profileHandler.GetProfile)
	secured.PUT("/profile/email", profileHandler.UpdateEmail)
	secured.PUT("/profile/password", profileHandler.ChangePassword)
	secured.DELETE("/profile", profileHandler.DeleteAccount)

	secured.POST("/detections", eventHandler.AppendEvent)
	secured.GET("/detections", eventHandler.QueryEvents)
	secured.GET("/detections/recent", eventHandler.RecentEvents)

	secured.GET("/stats/summary", statsHandler.Summary)
	secured.GET("/stats/trend", statsHandler.Trend)

	secured.POST("/chat", chatHandler.Send)
	secured.GET("/chat/history", chatHandler.History)
	secured.DELETE("/chat/history", chatHandler.Clear)
}

// APIKeyMiddleware enforces the X-API-Key shared secret on feed routes.
// The error body matches the published contract.
func APIKeyMiddleware(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-API-Key") != apiKey {
				return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Invalid API key"})
			}
			return next(c)
		}
	}
}

// SessionMiddleware resumes the session behind a validated JWT and attaches
// it to the request. Revoked or idle-expired sessions get a 401.
func SessionMiddleware(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			s, err := sessions.Resume(c.Request().Context(), claims)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}
			handler.SetSession(c, s)
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
