package controllers

import (
	"Chirp/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {
	s.Router.NoRoute(s.NotFound)
	s.Router.GET("/healthz", s.Healthz)
	s.Router.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	optionalAuth := middlewares.OptionalAuthMiddleware(s.DB, s.Config.SecretKey, s.Log)
	requireAuth := middlewares.TokenAuthMiddleware(s.DB, s.Config.SecretKey, s.Log)
	loginLimit := middlewares.LoginRateLimitMiddleware(s.Config.RateLimit.LoginEvery, s.Config.RateLimit.LoginBurst)

	v1 := s.Router.Group("/api/v1")
	{
		// Auth routes
		v1.POST("/register", loginLimit, optionalAuth, s.CreateUser)
		v1.POST("/login", loginLimit, optionalAuth, s.Login)
		v1.POST("/logout", optionalAuth, s.Logout)

		// Timelines
		v1.GET("/feed", requireAuth, s.GetFeed)
		v1.GET("/posts", requireAuth, s.GetAllPosts)
		v1.POST("/posts", requireAuth, s.CreatePost)

		// Own profile
		v1.PUT("/users/me", requireAuth, s.UpdateProfile)
		v1.PUT("/users/me/avatar", requireAuth, s.UpdateAvatar)

		// Other users
		v1.GET("/users/:username", requireAuth, s.GetUserProfile)
		v1.GET("/users/:username/posts", requireAuth, s.GetUserPosts)
		v1.POST("/users/:username/follow", requireAuth, s.FollowUser)
		v1.DELETE("/users/:username/follow", requireAuth, s.UnfollowUser)
		v1.GET("/users/:username/followers", requireAuth, s.GetFollowers)
		v1.GET("/users/:username/following", requireAuth, s.GetFollowing)
		v1.GET("/users/:username/relationship", requireAuth, s.GetRelationship)
	}
}
