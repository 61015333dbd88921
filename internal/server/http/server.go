// Package httpserver exposes the procedure tree over HTTP with gin.
//
// Queries are served at GET /api/rpc/<name>?input=<json>, mutations at
// POST /api/rpc/<name> with a JSON body. Callers authenticate with
// "Authorization: Bearer <token>" or a session cookie set by POST /api/auth/session.
package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/procedure"
)

const (
	sessionName = "plaque_session"
	sessionKey  = "token"

	// maxBodyBytes bounds request bodies; uploads arrive base64-encoded.
	maxBodyBytes = 32 << 20
)

// Resolver maps a bearer token to a caller.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Options configures the HTTP handler.
type Options struct {
	Router        *procedure.Router
	Identity      Resolver
	Log           *zap.Logger
	SessionSecret []byte
	SecureCookies bool
	CORSOrigins   []string
	// MediaDir, when set, is served read-only under MediaPath.
	MediaDir  string
	MediaPath string
}

// New builds the HTTP handler.
func New(o Options) http.Handler {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}

	r := gin.New()
	r.Use(Recovery(o.Log), Logger(o.Log))

	store := cookie.NewStore(o.SessionSecret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   o.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	h := &handlers{router: o.Router, ident: o.Identity, log: o.Log}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if o.MediaDir != "" {
		path := o.MediaPath
		if path == "" {
			path = "/media"
		}
		r.Static(path, o.MediaDir)
	}

	api := r.Group("/api", h.identify)
	api.POST("/auth/session", h.login)
	api.POST("/auth/logout", h.logout)
	api.GET("/rpc/:procedure", h.rpc)
	api.POST("/rpc/:procedure", h.rpc)

	if len(o.CORSOrigins) == 0 {
		return r
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   o.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)
}
