package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resumeforge/resumeforge/internal/builder"
	"github.com/resumeforge/resumeforge/internal/models"
	"github.com/resumeforge/resumeforge/internal/preview"
	"github.com/resumeforge/resumeforge/internal/sessions"
	"github.com/resumeforge/resumeforge/internal/tokens"
	"github.com/resumeforge/resumeforge/internal/users"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/middleware"
)

var log = logger.Named("http")

const stateCookie = "oauth_state"

// OAuthProvider is implemented by *oidc.Provider.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (map[string]interface{}, error)
}

// LoginRequest covers both sign-in modes.
type LoginRequest struct {
	Mode     string `json:"mode" form:"mode"` // "password" (default) | "oauth_code"
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Code     string `json:"code" form:"code"`
}

type SignUpRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	FullName string `json:"fullName" form:"fullName"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	issuer      *tokens.Issuer
	blacklist   *sessions.Blacklist
	provider    OAuthProvider
	refreshTTL  time.Duration
	secure      bool
}

type AuthOption func(*AuthHandler)

func WithOAuthProvider(p OAuthProvider) AuthOption {
	return func(h *AuthHandler) { h.provider = p }
}

func WithBlacklist(b *sessions.Blacklist) AuthOption {
	return func(h *AuthHandler) { h.blacklist = b }
}

func WithRefreshTTL(d time.Duration) AuthOption {
	return func(h *AuthHandler) { h.refreshTTL = d }
}

// WithSecureCookies marks the access cookie Secure.
func WithSecureCookies(secure bool) AuthOption {
	return func(h *AuthHandler) { h.secure = secure }
}

func NewAuthHandler(u *users.Service, s *sessions.Service, issuer *tokens.Issuer, opts ...AuthOption) *AuthHandler {
	h := &AuthHandler{usersSvc: u, sessionsSvc: s, issuer: issuer, refreshTTL: sessions.DefaultTTL}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register routes under /auth
func (h *AuthHandler) Register(r gin.IRouter) {
	a := r.Group("/auth")
	a.POST("/signup", h.SignUp)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
	a.GET("/oidc", h.StartOAuth)
	a.GET("/callback", h.Callback)
}

// RegisterProtected mounts the routes that need an authenticated user.
func (h *AuthHandler) RegisterProtected(rg gin.IRouter) {
	rg.GET("/me", h.Me)
	rg.GET("/settings", h.Settings)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBind(&req); err != nil {
		authError(c, http.StatusBadRequest, "/signup", err.Error())
		return
	}
	u, err := h.usersSvc.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName)
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		authError(c, http.StatusConflict, "/signup", err.Error())
		return
	case errors.Is(err, users.ErrInvalidEmail), errors.Is(err, users.ErrWeakPassword):
		authError(c, http.StatusBadRequest, "/signup", err.Error())
		return
	case err != nil:
		log.Errorf("sign up: %v", err)
		authError(c, http.StatusInternalServerError, "/signup", "sign up failed")
		return
	}
	h.issueSession(c, http.StatusCreated, u)
}

// Login signs in with email and password, or exchanges an OAuth
// authorization code.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		authError(c, http.StatusBadRequest, builder.PathLogin, err.Error())
		return
	}
	var (
		u   *models.User
		err error
	)
	switch req.Mode {
	case "", "password":
		u, err = h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, users.ErrInvalidCredentials) {
			authError(c, http.StatusUnauthorized, builder.PathLogin, err.Error())
			return
		}
	case "oauth_code":
		if req.Code == "" {
			authError(c, http.StatusBadRequest, builder.PathLogin, "code required for oauth_code mode")
			return
		}
		u, err = h.oauthUser(c.Request.Context(), req.Code)
		if errors.Is(err, errOAuthDisabled) {
			authError(c, http.StatusNotImplemented, builder.PathLogin, err.Error())
			return
		}
	default:
		authError(c, http.StatusBadRequest, builder.PathLogin, "unsupported mode")
		return
	}
	if err != nil {
		log.Errorf("login (%s): %v", req.Mode, err)
		authError(c, http.StatusUnauthorized, builder.PathLogin, "authentication failed")
		return
	}
	h.issueSession(c, http.StatusOK, u)
}

// Refresh rotates the refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, next, err := h.sessionsSvc.Rotate(c.Request.Context(), req.RefreshToken, h.refreshTTL)
	if err != nil {
		log.Errorf("refresh: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.usersSvc.GetBySub(c.Request.Context(), sess.Sub)
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	access, exp, err := h.issuer.Issue(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	h.setAccessCookie(c, access, exp)
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": next,
		"expiresIn":    int(time.Until(exp).Seconds()),
	})
}

// Logout invalidates the refresh token and blacklists the presented access
// token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)

	if at := middleware.RawToken(c); at != "" {
		if err := h.blacklist.Add(c.Request.Context(), at, h.issuer.Remaining(at)); err != nil {
			log.Errorf("blacklist access token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to blacklist access token"})
			return
		}
	}
	if req.RefreshToken != "" {
		if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
			return
		}
	}
	c.SetCookie(middleware.AccessCookie, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// StartOAuth sends the browser to the identity provider.
func (h *AuthHandler) StartOAuth(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": errOAuthDisabled.Error()})
		return
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create state"})
		return
	}
	state := hex.EncodeToString(b)
	c.SetCookie(stateCookie, state, 600, "/auth", "", h.secure, true)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback completes the OAuth flow. Failures go back to the login page
// with the error in the query string.
func (h *AuthHandler) Callback(c *gin.Context) {
	fail := func(msg string) {
		c.Redirect(http.StatusFound, builder.PathLogin+"?error="+url.QueryEscape(msg))
	}
	if e := c.Query("error"); e != "" {
		if d := c.Query("error_description"); d != "" {
			e = d
		}
		fail(e)
		return
	}
	if want, err := c.Cookie(stateCookie); err != nil || want == "" || want != c.Query("state") {
		fail("invalid state")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth", "", h.secure, true)

	u, err := h.oauthUser(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Errorf("oauth callback: %v", err)
		fail("authentication failed")
		return
	}
	access, exp, err := h.issuer.Issue(u)
	if err != nil {
		fail("authentication failed")
		return
	}
	h.setAccessCookie(c, access, exp)
	c.Redirect(http.StatusFound, builder.PathDashboard)
}

// Me returns the current user: {id, email} plus profile fields.
func (h *AuthHandler) Me(c *gin.Context) {
	sub := middleware.Subject(c)
	u, err := h.usersSvc.GetBySub(c.Request.Context(), sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		claims, _ := c.Get("claims")
		c.JSON(http.StatusOK, gin.H{"id": sub, "claims": claims, "isAuthenticated": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.Sub, "email": u.Email, "name": u.Name, "provider": u.Provider, "isAuthenticated": true})
}

// Settings reports the account and the choices the editor offers.
func (h *AuthHandler) Settings(c *gin.Context) {
	u, err := h.usersSvc.GetBySub(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	ids := make([]string, 0, len(preview.Templates))
	for _, t := range preview.Templates {
		ids = append(ids, t.ID)
	}
	c.JSON(http.StatusOK, gin.H{
		"user":            u,
		"templates":       ids,
		"defaultTemplate": preview.DefaultTemplate,
		"oauthEnabled":    h.provider != nil,
	})
}

var errOAuthDisabled = errors.New("oauth sign-in is not configured")

func (h *AuthHandler) oauthUser(ctx context.Context, code string) (*models.User, error) {
	if h.provider == nil {
		return nil, errOAuthDisabled
	}
	claims, err := h.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	u, err := h.usersSvc.UpsertFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("id token has no subject")
	}
	return u, nil
}

func (h *AuthHandler) issueSession(c *gin.Context, status int, u *models.User) {
	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.Sub, h.refreshTTL)
	if err != nil {
		log.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, exp, err := h.issuer.Issue(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	h.setAccessCookie(c, access, exp)
	if isForm(c) {
		c.Redirect(http.StatusFound, builder.PathDashboard)
		return
	}
	c.JSON(status, gin.H{
		"accessToken":  access,
		"refreshToken": rft,
		"user":         u,
		"expiresIn":    int(time.Until(exp).Seconds()),
	})
}

func (h *AuthHandler) setAccessCookie(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessCookie, token, int(time.Until(exp).Seconds()), "/", "", h.secure, true)
}

func isForm(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEPOSTForm
}

// authError answers API clients with JSON and sends form posts back to page
// with the message.
func authError(c *gin.Context, status int, page, msg string) {
	if isForm(c) {
		c.Redirect(http.StatusFound, page+"?error="+url.QueryEscape(msg))
		return
	}
	c.JSON(status, gin.H{"error": msg})
}
