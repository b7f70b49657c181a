package controllers

import (
	"net/url"
	"strconv"

	"Chirp/models"
	"Chirp/utils/pagination"
)

// userToDTO renders a user. The email address is only shown to its owner.
func userToDTO(user *models.User, self bool) UserDTO {
	dto := UserDTO{
		ID:             user.PublicID,
		Username:       user.Username,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL(avatarSize),
		LastSeen:       user.LastSeen,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
		CreatedAt:      user.CreatedAt,
	}
	if self {
		dto.Email = user.Email
	}
	return dto
}

func userToSummary(user *models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:        user.PublicID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL(avatarSize),
	}
}

func postToDTO(post *models.Post) PostDTO {
	return PostDTO{
		ID:        post.PublicID,
		Body:      post.Body,
		Author:    userToSummary(&post.Author),
		CreatedAt: post.CreatedAt,
	}
}

func postsToPage(posts []models.Post, page pagination.Page, base *url.URL) PostPageDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = postToDTO(&posts[i])
	}
	next, prev := pageURLs(page, base)
	return PostPageDTO{Posts: dtos, Page: page, NextURL: next, PrevURL: prev}
}

func usersToPage(users []models.User, page pagination.Page, base *url.URL) UserPageDTO {
	dtos := make([]UserSummaryDTO, len(users))
	for i := range users {
		dtos[i] = userToSummary(&users[i])
	}
	next, prev := pageURLs(page, base)
	return UserPageDTO{Users: dtos, Page: page, NextURL: next, PrevURL: prev}
}

// pageURLs builds the next/previous links on the request path. Other query
// parameters are dropped so cached pages are identical for every caller.
func pageURLs(page pagination.Page, base *url.URL) (next, prev *string) {
	build := func(number int) *string {
		u := url.URL{Path: base.Path, RawQuery: url.Values{"page": {strconv.Itoa(number)}}.Encode()}
		link := u.RequestURI()
		return &link
	}
	if page.HasNext {
		next = build(page.NextNum)
	}
	if page.HasPrev {
		prev = build(page.PrevNum)
	}
	return next, prev
}
