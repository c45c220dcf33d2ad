package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jwtv4 "github.com/golang-jwt/jwt/v4"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cast"
	"github.com/talkincode/toughstore/internal/app"
	"github.com/talkincode/toughstore/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context keys set by the injection middleware
const (
	ContextDBKey  = "toughstore_db"
	ContextAppKey = "toughstore_app"
)

// Session keys for the admin web login
const (
	SessionOprUsername = "opr_username"
	SessionOprLevel    = "opr_level"
)

var server *WebServer

// WebServer wraps echo with the route groups the api packages register into.
type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
	pub    *echo.Group // /api/v1 without auth
	api    *echo.Group // /api/v1 behind JWT
	admin  *echo.Group // /api/admin behind session or JWT operator auth
}

// Init builds the singleton web server. Must run before route registration.
func Init(appCtx app.AppContext) *WebServer {
	secret := appCtx.Config().Web.Secret

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = NewJsoniterSerializer()
	e.Validator = NewPayloadValidator()

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(secret))))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextDBKey, appCtx.DB())
			c.Set(ContextAppKey, appCtx)
			metrics.Inc(metrics.MetricApiRequest)
			return next(c)
		}
	})

	s := &WebServer{root: e, appCtx: appCtx}
	s.pub = e.Group("/api/v1")
	s.api = e.Group("/api/v1", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
	}))
	s.admin = e.Group("/api/admin", s.adminAuthMiddleware(secret))

	server = s
	return s
}

// Start runs the listener until the process exits.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.appCtx.Config().Web.Host, s.appCtx.Config().Web.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))
	return s.root.Start(addr)
}

// Echo exposes the underlying engine (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Listen starts the singleton server.
func Listen() error {
	return server.Start()
}

// Shutdown gracefully stops the singleton server.
func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

// adminAuthMiddleware accepts an authenticated admin session cookie or a
// Bearer token whose level claim marks an operator.
func (s *WebServer) adminAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/api/admin/login" {
				return next(c)
			}
			if sess, err := session.Get("toughstore_session", c); err == nil {
				if username, ok := sess.Values[SessionOprUsername].(string); ok && username != "" {
					return next(c)
				}
			}

			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if len(auth) > 7 && auth[:7] == "Bearer " {
				claims := jwtv4.MapClaims{}
				_, err := jwtv4.ParseWithClaims(auth[7:], claims, func(t *jwtv4.Token) (interface{}, error) {
					return []byte(secret), nil
				})
				if err == nil && cast.ToString(claims["lvl"]) != "" && cast.ToString(claims["lvl"]) != "user" {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "operator authentication required")
		}
	}
}

// CreateToken issues a signed access token for a user or operator account.
func CreateToken(secret string, uid int64, username, level string) (string, error) {
	token := jwtv4.NewWithClaims(jwtv4.SigningMethodHS256, jwtv4.MapClaims{
		"uid": fmt.Sprintf("%d", uid),
		"usr": username,
		"lvl": level,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(ContextDBKey).(*gorm.DB)
}

// GetApp returns the application context.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(ContextAppKey).(app.AppContext)
}

// GetCurrentUserID extracts the uid claim set by the JWT middleware.
func GetCurrentUserID(c echo.Context) int64 {
	token, ok := c.Get("user").(*jwtv5.Token)
	if !ok {
		return 0
	}
	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok {
		return 0
	}
	return cast.ToInt64(claims["uid"])
}

// Route registration surface, grouped by auth level

func PubGET(path string, h echo.HandlerFunc)    { server.pub.GET(path, h) }
func PubPOST(path string, h echo.HandlerFunc)   { server.pub.POST(path, h) }
func PubDELETE(path string, h echo.HandlerFunc) { server.pub.DELETE(path, h) }
func PubPATCH(path string, h echo.HandlerFunc)  { server.pub.PATCH(path, h) }

func ApiGET(path string, h echo.HandlerFunc)    { server.api.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.api.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.api.PUT(path, h) }
func ApiPATCH(path string, h echo.HandlerFunc)  { server.api.PATCH(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }

func AdminGET(path string, h echo.HandlerFunc)    { server.admin.GET(path, h) }
func AdminPOST(path string, h echo.HandlerFunc)   { server.admin.POST(path, h) }
func AdminPUT(path string, h echo.HandlerFunc)    { server.admin.PUT(path, h) }
func AdminDELETE(path string, h echo.HandlerFunc) { server.admin.DELETE(path, h) }
