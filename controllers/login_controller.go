package controllers

import (
	"errors"
	"net/http"

	"Chirp/auth"
	"Chirp/models"
	"Chirp/security"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = errors.New("invalid username or password")

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Login checks the credentials, opens a session and hands back its token,
// both in the body and as an HttpOnly cookie.
func (server *Server) Login(c *gin.Context) {
	if _, ok := httpctx.CurrentUserID(c); ok {
		c.JSON(http.StatusConflict, gin.H{"error": "Already logged in"})
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	creds := models.User{Username: req.Username, Password: req.Password}
	creds.Prepare()
	if errorMessages := creds.Validate("login"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	session, user, err := server.SignIn(creds.Username, req.Password, req.RememberMe)
	if errors.Is(err, errBadCredentials) {
		server.Metrics.LoginAttempt(false)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid username or password"})
		return
	}
	if err != nil {
		server.internalError(c, err, "login failed")
		return
	}

	token, err := auth.CreateToken(server.Config.SecretKey, session.ID, user.ID, session.ExpiresAt)
	if err != nil {
		_ = models.DeleteSession(server.DB, session.ID)
		server.internalError(c, err, "could not sign session token")
		return
	}
	server.Metrics.LoginAttempt(true)

	// Browsers drop the cookie at the end of the visit unless remember_me was set.
	maxAge := 0
	if session.Remember {
		maxAge = int(server.Config.RememberTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", server.Config.IsProduction(), true)

	server.Log.WithField("user_id", user.ID).Info("user logged in")
	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": SessionDTO{
			Token:     token,
			ExpiresAt: session.ExpiresAt,
			Remember:  session.Remember,
			User:      userToDTO(user, true),
		},
	})
}

// SignIn verifies username and password and stores a new session row.
func (server *Server) SignIn(username, password string, remember bool) (*models.Session, *models.User, error) {
	user, err := (&models.User{}).FindUserByUsername(server.DB, username)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, nil, errBadCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if err := security.VerifyPassword(user.Password, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil, errBadCredentials
		}
		return nil, nil, err
	}

	ttl := server.Config.SessionTTL
	if remember {
		ttl = server.Config.RememberTTL
	}
	session, err := models.NewSession(user.ID, ttl, remember).SaveSession(server.DB)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// Logout revokes the current session. Repeating it is harmless.
func (server *Server) Logout(c *gin.Context) {
	if sid, ok := httpctx.CurrentSessionID(c); ok {
		if err := models.DeleteSession(server.DB, sid); err != nil {
			server.internalError(c, err, "logout failed")
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", server.Config.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Logged out"})
}
