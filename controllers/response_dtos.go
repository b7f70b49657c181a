package controllers

import (
	"time"

	"Chirp/utils/pagination"
)

const avatarSize = 128

type UserDTO struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	LastSeen       time.Time `json:"last_seen"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type UserSummaryDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type ProfileDTO struct {
	UserDTO
	IsSelf     bool `json:"is_self"`
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Mutual     bool `json:"mutual"`
}

type PostDTO struct {
	ID        string         `json:"id"`
	Body      string         `json:"body"`
	Author    UserSummaryDTO `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
}

type PostPageDTO struct {
	Posts   []PostDTO       `json:"posts"`
	Page    pagination.Page `json:"page"`
	NextURL *string         `json:"next_url"`
	PrevURL *string         `json:"prev_url"`
}

type UserPageDTO struct {
	Users   []UserSummaryDTO `json:"users"`
	Page    pagination.Page  `json:"page"`
	NextURL *string          `json:"next_url"`
	PrevURL *string          `json:"prev_url"`
}

type SessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Remember  bool      `json:"remember"`
	User      UserDTO   `json:"user"`
}

type RelationshipDTO struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Mutual     bool `json:"mutual"`
}
