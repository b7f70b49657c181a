package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"Chirp/models"
	"Chirp/storage"
	"Chirp/utils/httpctx"

	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 512_000

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

// CreateUser handles user registration
func (server *Server) CreateUser(c *gin.Context) {
	if _, ok := httpctx.CurrentUserID(c); ok {
		c.JSON(http.StatusConflict, gin.H{"error": "Already logged in"})
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := models.User{Username: req.Username, Email: req.Email, Password: req.Password}
	user.Prepare()
	errorMessages := user.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	nameTaken, err := user.UsernameTaken(server.DB, user.Username, 0)
	if err != nil {
		server.internalError(c, err, "username lookup failed")
		return
	}
	emailTaken, err := user.EmailTaken(server.DB, user.Email)
	if err != nil {
		server.internalError(c, err, "email lookup failed")
		return
	}
	if nameTaken {
		errorMessages["Taken_username"] = "Please use a different username."
	}
	if emailTaken {
		errorMessages["Taken_email"] = "Please use a different email address."
	}
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	userCreated, err := user.SaveUser(server.DB)
	if err != nil {
		// A concurrent registration can still trip the unique index.
		server.storeError(c, err, "could not create user")
		return
	}

	server.Log.WithField("user_id", userCreated.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": userToDTO(userCreated, true),
	})
}

// GetUserProfile shows a user together with how the viewer relates to them.
func (server *Server) GetUserProfile(c *gin.Context) {
	viewerID, _ := httpctx.CurrentUserID(c)

	user, err := resolveUser(server.DB, c.Param("username"))
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		server.internalError(c, err, "could not load user")
		return
	}

	self := user.ID == viewerID
	profile := ProfileDTO{UserDTO: userToDTO(user, self), IsSelf: self}
	if !self {
		rel, err := server.relationship(viewerID, user.ID)
		if err != nil {
			server.internalError(c, err, "could not load relationship")
			return
		}
		profile.Following = rel.Following
		profile.FollowedBy = rel.FollowedBy
		profile.Mutual = rel.Mutual
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": profile})
}

// UpdateProfile changes the caller's username and bio.
func (server *Server) UpdateProfile(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := models.User{ID: uid, Username: req.Username, Bio: req.Bio}
	user.Prepare()
	errorMessages := user.Validate("update")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	taken, err := user.UsernameTaken(server.DB, user.Username, uid)
	if err != nil {
		server.internalError(c, err, "username lookup failed")
		return
	}
	if taken {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": map[string]string{
			"Taken_username": "Please use a different username.",
		}})
		return
	}

	updatedUser, err := user.UpdateProfile(server.DB, uid)
	if err != nil {
		server.storeError(c, err, "could not update profile")
		return
	}
	server.invalidateTimelines(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(updatedUser, true)})
}

// UpdateAvatar stores a square PNG thumbnail of the uploaded image and points
// the caller's avatar at it.
func (server *Server) UpdateAvatar(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if server.Avatars == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Avatar uploads are not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file"})
		return
	}
	if file.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (<500KB)"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open file"})
		return
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, maxAvatarBytes+1))
	if err != nil || len(buf) > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file"})
		return
	}
	fileType := http.DetectContentType(buf)
	if !strings.HasPrefix(fileType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not an image"})
		return
	}

	thumb, err := storage.Thumbnail(buf, storage.AvatarPixels)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not an image"})
		return
	}

	name := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename)) + ".png"
	url, err := server.Avatars.PutAvatar(c.Request.Context(), name, thumb, "image/png")
	if err != nil {
		server.internalError(c, err, "avatar upload failed")
		return
	}

	user := models.User{AvatarPath: url}
	updatedUser, err := user.UpdateAvatar(server.DB, uid)
	if err != nil {
		server.internalError(c, err, "could not save avatar")
		return
	}
	server.invalidateTimelines(c.Request.Context())

	server.Log.WithField("user_id", uid).Info("avatar updated")
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(updatedUser, true)})
}
