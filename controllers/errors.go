package controllers

import (
	"net/http"

	"Chirp/utils/formaterror"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const genericErrorMessage = "An unexpected error occurred"

// internalError logs err at ERROR, which reaches the alert hooks, and sends
// the generic 500 body.
func (server *Server) internalError(c *gin.Context, err error, msg string) {
	fields := logrus.Fields{
		"method": c.Request.Method,
		"route":  c.FullPath(),
	}
	if uid, ok := httpctx.CurrentUserID(c); ok {
		fields["user_id"] = uid
	}
	server.Log.WithError(err).WithFields(fields).Error(msg)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericErrorMessage})
}

// storeError answers a failed user write. Unique-index violations that slip
// past the pre-checks are reported as 422 field errors, anything else is a 500.
func (server *Server) storeError(c *gin.Context, err error, msg string) {
	formattedError := formaterror.FormatError(err.Error())
	if _, ok := formattedError["Incorrect_details"]; ok {
		server.internalError(c, err, msg)
		return
	}
	server.Log.WithError(err).WithField("route", c.FullPath()).Info("write rejected by unique index")
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": formattedError})
}

func (server *Server) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func (server *Server) Healthz(c *gin.Context) {
	sqlDB, err := server.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		server.Log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": http.StatusServiceUnavailable, "response": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "ok"})
}
