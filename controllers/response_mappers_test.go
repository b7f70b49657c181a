package controllers

import (
	"net/url"
	"testing"

	"Chirp/models"
	"Chirp/utils/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageURLs(t *testing.T) {
	base, err := url.Parse("/api/v1/feed?page=2&lang=en")
	require.NoError(t, err)

	next, prev := pageURLs(pagination.New(2, 5, 12), base)
	require.NotNil(t, next)
	require.NotNil(t, prev)
	assert.Equal(t, "/api/v1/feed?page=3", *next)
	assert.Equal(t, "/api/v1/feed?page=1", *prev)

	next, prev = pageURLs(pagination.New(1, 5, 3), base)
	assert.Nil(t, next)
	assert.Nil(t, prev)
}

func TestUserToDTO_HidesEmailFromOthers(t *testing.T) {
	u := &models.User{PublicID: "pid", Username: "ann", Email: "ann@example.com"}

	assert.Empty(t, userToDTO(u, false).Email)
	assert.Equal(t, "ann@example.com", userToDTO(u, true).Email)
	assert.Contains(t, userToDTO(u, false).AvatarURL, "gravatar.com")
}
