package middlewares

import (
	"errors"
	"net/http"
	"time"

	"Chirp/auth"
	"Chirp/models"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// authenticate resolves the request's token to a live session and bumps the
// owner's last_seen.
func authenticate(c *gin.Context, db *gorm.DB, secret string, logger logrus.FieldLogger) (*models.Session, error) {
	raw, err := auth.ExtractToken(c.Request)
	if err != nil {
		return nil, err
	}
	claims, err := auth.ParseToken(secret, raw)
	if err != nil {
		return nil, err
	}

	session, err := models.FindSession(db.WithContext(c.Request.Context()), claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, auth.ErrInvalidToken
	}

	if err := models.TouchLastSeen(db, session.UserID, time.Now()); err != nil {
		logger.WithError(err).WithField("user_id", session.UserID).Warn("failed to update last_seen")
	}
	return session, nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, models.ErrSessionNotFound) ||
		errors.Is(err, models.ErrSessionExpired)
}

// TokenAuthMiddleware rejects requests without a live session.
func TokenAuthMiddleware(db *gorm.DB, secret string, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authenticate(c, db, secret, logger)
		if err != nil {
			if !isAuthFailure(err) {
				logger.WithError(err).Error("session lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		httpctx.SetSession(c, session.UserID, session.ID)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the session when one is presented and
// otherwise lets the request through anonymously.
func OptionalAuthMiddleware(db *gorm.DB, secret string, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authenticate(c, db, secret, logger)
		switch {
		case err == nil:
			httpctx.SetSession(c, session.UserID, session.ID)
		case !isAuthFailure(err):
			logger.WithError(err).Warn("optional session lookup failed")
		}
		c.Next()
	}
}

// CORSMiddleware lets the configured browser origins call the API with credentials.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, Content-Length, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
