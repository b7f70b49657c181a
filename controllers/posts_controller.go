package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"Chirp/models"
	"Chirp/utils/httpctx"
	"Chirp/utils/pagination"

	"github.com/gin-gonic/gin"
)

type CreatePostRequest struct {
	Body string `json:"body"`
}

type postPager func(number, size int) ([]models.Post, pagination.Page, error)

// CreatePost publishes a post for the caller.
func (server *Server) CreatePost(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post := models.Post{Body: req.Body, UserID: uid}
	post.Prepare()
	if errorMessages := post.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	postCreated, err := post.SavePost(server.DB)
	if err != nil {
		server.internalError(c, err, "could not create post")
		return
	}
	server.Metrics.PostCreated()

	followers, err := models.FollowerIDs(server.DB, uid)
	if err != nil {
		server.Log.WithError(err).WithField("user_id", uid).Warn("could not load followers, dropping all feeds")
		server.invalidateTimelines(c.Request.Context())
	} else {
		server.invalidateAfterPost(c.Request.Context(), uid, followers)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": postToDTO(postCreated),
	})
}

// GetFeed pages through posts by the caller and everyone they follow.
func (server *Server) GetFeed(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	number := pagination.ParseNumber(c.Query("page"))
	server.servePostPage(c, feedCacheKey(uid, number), number, func(number, size int) ([]models.Post, pagination.Page, error) {
		return (&models.Post{}).FindFeed(server.DB, uid, number, size)
	})
}

// GetAllPosts pages through every post, the explore timeline.
func (server *Server) GetAllPosts(c *gin.Context) {
	number := pagination.ParseNumber(c.Query("page"))
	server.servePostPage(c, allPostsCacheKey(number), number, func(number, size int) ([]models.Post, pagination.Page, error) {
		return (&models.Post{}).FindAllPosts(server.DB, number, size)
	})
}

// GetUserPosts pages through the posts written by :username.
func (server *Server) GetUserPosts(c *gin.Context) {
	user, err := resolveUser(server.DB, c.Param("username"))
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		server.internalError(c, err, "could not load user")
		return
	}

	number := pagination.ParseNumber(c.Query("page"))
	server.servePostPage(c, userPostsCacheKey(user.ID, number), number, func(number, size int) ([]models.Post, pagination.Page, error) {
		return (&models.Post{}).FindUserPosts(server.DB, user.ID, number, size)
	})
}

// servePostPage answers from the cache when it can and fills it otherwise.
func (server *Server) servePostPage(c *gin.Context, cacheKey string, number int, load postPager) {
	ctx := c.Request.Context()
	useCache := cacheable(number)

	if useCache {
		if cached, err := server.Cache.Get(ctx, cacheKey); err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	posts, page, err := load(number, server.Config.PageSize)
	if err != nil {
		server.internalError(c, err, "could not load posts")
		return
	}

	body := gin.H{
		"status":   http.StatusOK,
		"response": postsToPage(posts, page, c.Request.URL),
	}
	if useCache {
		if jsonBytes, err := json.Marshal(body); err == nil {
			if err := server.Cache.Set(ctx, cacheKey, jsonBytes, server.Config.FeedCacheTTL); err != nil {
				server.Log.WithError(err).WithField("key", cacheKey).Warn("cache write failed")
			}
		}
	}

	c.JSON(http.StatusOK, body)
}
