package controllers

import (
	"context"
	"fmt"
)

const (
	allPostsPrefix  = "posts:all:"
	feedPrefix      = "feed:"
	userPostsPrefix = "posts:user:"

	maxCachedPage = 20
)

func feedCacheKey(userID uint, page int) string {
	return fmt.Sprintf("%s%d:page:%d", feedPrefix, userID, page)
}

func allPostsCacheKey(page int) string {
	return fmt.Sprintf("%spage:%d", allPostsPrefix, page)
}

func userPostsCacheKey(userID uint, page int) string {
	return fmt.Sprintf("%s%d:page:%d", userPostsPrefix, userID, page)
}

// Only the first pages of a timeline are cached.
func cacheable(page int) bool {
	return page >= 1 && page <= maxCachedPage
}

// invalidateAfterPost drops every cached timeline that can show a new post by authorID.
func (server *Server) invalidateAfterPost(ctx context.Context, authorID uint, followerIDs []uint) {
	prefixes := []string{
		allPostsPrefix,
		fmt.Sprintf("%s%d:", userPostsPrefix, authorID),
		fmt.Sprintf("%s%d:", feedPrefix, authorID),
	}
	for _, id := range followerIDs {
		prefixes = append(prefixes, fmt.Sprintf("%s%d:", feedPrefix, id))
	}
	server.dropPrefixes(ctx, prefixes...)
}

func (server *Server) invalidateFeed(ctx context.Context, userID uint) {
	server.dropPrefixes(ctx, fmt.Sprintf("%s%d:", feedPrefix, userID))
}

// invalidateTimelines drops everything that embeds author details.
func (server *Server) invalidateTimelines(ctx context.Context) {
	server.dropPrefixes(ctx, feedPrefix, allPostsPrefix, userPostsPrefix)
}

func (server *Server) dropPrefixes(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := server.Cache.DeleteByPrefix(ctx, prefix); err != nil {
			server.Log.WithError(err).WithField("prefix", prefix).Warn("cache invalidation failed")
		}
	}
}
