package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stonesign/plaque-cms/internal/errs"
	"github.com/stonesign/plaque-cms/internal/identity"
	"github.com/stonesign/plaque-cms/internal/model"
	"github.com/stonesign/plaque-cms/internal/procedure"
)

type handlers struct {
	router *procedure.Router
	ident  Resolver
	log    *zap.Logger
}

type errorPayload struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  []errs.FieldError `json:"fields,omitempty"`
}

func errorBody(code, msg string, fields []errs.FieldError) gin.H {
	return gin.H{"error": errorPayload{Code: code, Message: msg, Fields: fields}}
}

func writeError(c *gin.Context, err error) {
	var fields []errs.FieldError
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		fields = ve.Fields
	}
	switch errs.KindOf(err) {
	case errs.KindValidation:
		c.JSON(http.StatusBadRequest, errorBody("BAD_REQUEST", err.Error(), fields))
	case errs.KindUnauthenticated:
		c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED", "authentication required", nil))
	case errs.KindForbidden:
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "admin access required", nil))
	case errs.KindNotFound:
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", err.Error(), nil))
	default:
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL_SERVER_ERROR", err.Error(), nil))
	}
}

// identify resolves the caller from the bearer header or the session cookie.
// Unusable credentials leave the request anonymous.
func (h *handlers) identify(c *gin.Context) {
	tok, ok := identity.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		tok, ok = sessions.Default(c).Get(sessionKey).(string)
	}
	if !ok || tok == "" || h.ident == nil {
		c.Next()
		return
	}
	u, err := h.ident.Resolve(c.Request.Context(), tok)
	if err != nil {
		h.log.Debug("identity not resolved", zap.Error(err))
	}
	if u != nil {
		c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), u))
	}
	c.Next()
}

func (h *handlers) rpc(c *gin.Context) {
	name := c.Param("procedure")
	p, ok := h.router.Lookup(name)
	if !ok {
		writeError(c, errs.ErrNotFound)
		return
	}

	want := http.MethodGet
	if p.Kind() == procedure.Mutation {
		want = http.MethodPost
	}
	if c.Request.Method != want {
		c.Header("Allow", want)
		c.JSON(http.StatusMethodNotAllowed, errorBody("METHOD_NOT_SUPPORTED", p.Kind().String()+" "+name+" requires "+want, nil))
		return
	}

	var input json.RawMessage
	if want == http.MethodGet {
		if q := c.Query("input"); q != "" {
			input = json.RawMessage(q)
		}
	} else {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
		if err != nil {
			writeError(c, errs.Invalid("input", "request body too large or unreadable"))
			return
		}
		input = body
	}

	out, err := h.router.Invoke(c.Request.Context(), name, identity.UserFromCtx(c.Request.Context()), input)
	if err != nil {
		if errs.KindOf(err) == errs.KindInternal {
			h.log.Error("procedure failed", zap.String("procedure", name), zap.Error(err))
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out})
}

type loginRequest struct {
	Token string `json:"token" binding:"required"`
}

// login stores a verified token in the session cookie.
func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errs.Invalid("token", "is required"))
		return
	}
	if h.ident == nil {
		writeError(c, errs.ErrUnauthenticated)
		return
	}
	u, err := h.ident.Resolve(c.Request.Context(), req.Token)
	if err != nil || u == nil {
		writeError(c, errs.ErrUnauthenticated)
		return
	}

	s := sessions.Default(c)
	s.Set(sessionKey, req.Token)
	if err := s.Save(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": u})
}

func (h *handlers) logout(c *gin.Context) {
	s := sessions.Default(c)
	s.Delete(sessionKey)
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := s.Save(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": model.Ack{Success: true}})
}
