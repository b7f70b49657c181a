package controllers

import (
	"errors"
	"net/http"

	"Chirp/models"
	"Chirp/utils/httpctx"
	"Chirp/utils/pagination"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FollowUser makes the caller follow :username. Following twice is a no-op.
func (server *Server) FollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUser(server.DB, c.Param("username"))
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		server.internalError(c, err, "could not load user")
		return
	}

	if requestorID == target.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	created := false
	err = server.DB.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{FollowerID: requestorID, FollowedID: target.ID}
		var err error
		created, err = follow.SaveFollow(tx)
		return err
	})
	if errors.Is(err, models.ErrSelfFollow) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}
	if err != nil {
		server.internalError(c, err, "error following user")
		return
	}

	status := http.StatusOK
	message := "Already following " + target.Username
	if created {
		status = http.StatusCreated
		message = "You are following " + target.Username
		server.Metrics.FollowChanged("follow")
		server.invalidateFeed(c.Request.Context(), requestorID)
	}
	c.JSON(status, gin.H{"status": status, "response": message})
}

// UnfollowUser removes the caller's edge to :username. A missing edge is a no-op.
func (server *Server) UnfollowUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUser(server.DB, c.Param("username"))
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		server.internalError(c, err, "could not load user")
		return
	}

	if requestorID == target.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot unfollow yourself"})
		return
	}

	removed := false
	err = server.DB.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{FollowerID: requestorID, FollowedID: target.ID}
		var err error
		removed, err = follow.DeleteFollow(tx)
		return err
	})
	if err != nil {
		server.internalError(c, err, "error unfollowing user")
		return
	}

	if removed {
		server.Metrics.FollowChanged("unfollow")
		server.invalidateFeed(c.Request.Context(), requestorID)
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "You are not following " + target.Username})
}

// GetFollowers lists the users following :username, most recent first.
func (server *Server) GetFollowers(c *gin.Context) {
	server.listFollowUsers(c, models.FindFollowers)
}

// GetFollowing lists the users :username follows, most recent first.
func (server *Server) GetFollowing(c *gin.Context) {
	server.listFollowUsers(c, models.FindFollowing)
}

type followLister func(db *gorm.DB, uid uint, number, size int) ([]models.User, pagination.Page, error)

func (server *Server) listFollowUsers(c *gin.Context, list followLister) {
	target, err := resolveUser(server.DB, c.Param("username"))
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		server.internalError(c, err, "could not load user")
		return
	}

	number := pagination.ParseNumber(c.Query("page"))
	users, page, err := list(server.DB, target.ID, number, server.Config.PageSize)
	if err != nil {
		server.internalError(c, err, "could not list follows")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": usersToPage(users, page, c.Request.URL),
	})
}

// GetRelationship reports how the caller and :username follow each other.
func (server *Server) GetRelationship(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUser(server.DB, c.Param("username"))
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		server.internalError(c, err, "could not load user")
		return
	}

	if requestorID == target.ID {
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": RelationshipDTO{}})
		return
	}

	rel, err := server.relationship(requestorID, target.ID)
	if err != nil {
		server.internalError(c, err, "error checking relationship")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": rel})
}

func (server *Server) relationship(viewerID, targetID uint) (RelationshipDTO, error) {
	var rel RelationshipDTO
	if viewerID == 0 || viewerID == targetID {
		return rel, nil
	}

	following, err := models.IsFollowing(server.DB, viewerID, targetID)
	if err != nil {
		return rel, err
	}
	followedBy, err := models.IsFollowing(server.DB, targetID, viewerID)
	if err != nil {
		return rel, err
	}

	rel.Following = following
	rel.FollowedBy = followedBy
	rel.Mutual = following && followedBy
	return rel, nil
}
