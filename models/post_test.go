package models_test

import (
	"fmt"
	"testing"
	"time"

	"Chirp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_OwnPostAndFollowedAuthor(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	createPost(t, db, alice, "hello", time.Now())

	feed, page, err := (&models.Post{}).FindFeed(db, alice.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, bodies(feed))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "alice", feed[0].Author.Username)

	feed, _, err = (&models.Post{}).FindFeed(db, bob.ID, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, feed)

	follow(t, db, bob, alice)

	feed, _, err = (&models.Post{}).FindFeed(db, bob.ID, 1, 5)
	require.NoError(t, err)
	assert.Contains(t, bodies(feed), "hello")

	// Following is directed: alice still only sees her own post.
	feed, _, err = (&models.Post{}).FindFeed(db, alice.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, bodies(feed))
}

func TestFeed_ExcludesUnfollowedAuthors(t *testing.T) {
	db := newTestDB(t)
	viewer := createUser(t, db, "viewer")
	friend := createUser(t, db, "friend")
	stranger := createUser(t, db, "stranger")
	follow(t, db, viewer, friend)
	follow(t, db, stranger, viewer)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		createPost(t, db, viewer, fmt.Sprintf("viewer-%d", i), base.Add(time.Duration(i)*time.Minute))
		createPost(t, db, friend, fmt.Sprintf("friend-%d", i), base.Add(time.Duration(i)*time.Minute+time.Second))
		createPost(t, db, stranger, fmt.Sprintf("stranger-%d", i), base.Add(time.Duration(i)*time.Minute+2*time.Second))
	}

	feed, page, err := (&models.Post{}).FindFeed(db, viewer.ID, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(8), page.Total)
	for _, post := range feed {
		assert.Contains(t, []uint{viewer.ID, friend.ID}, post.UserID, "unexpected author for %q", post.Body)
	}
}

func TestFeed_NewestFirstWithIDTieBreak(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "writer")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	createPost(t, db, user, "oldest", base)
	createPost(t, db, user, "tie-first", base.Add(time.Minute))
	createPost(t, db, user, "tie-second", base.Add(time.Minute))
	createPost(t, db, user, "newest", base.Add(2*time.Minute))

	feed, _, err := (&models.Post{}).FindFeed(db, user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "tie-second", "tie-first", "oldest"}, bodies(feed))

	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt), "feed must be non-increasing in time")
	}
}

func TestFeed_TwelvePostsPageSizeFive(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "prolific")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		createPost(t, db, user, fmt.Sprintf("post-%02d", i), base.Add(time.Duration(i)*time.Second))
	}

	page1, meta1, err := (&models.Post{}).FindFeed(db, user.ID, 1, 5)
	require.NoError(t, err)
	assert.Len(t, page1, 5)
	assert.True(t, meta1.HasNext)
	assert.False(t, meta1.HasPrev)
	assert.Equal(t, "post-11", page1[0].Body)

	page3, meta3, err := (&models.Post{}).FindFeed(db, user.ID, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"post-01", "post-00"}, bodies(page3))
	assert.False(t, meta3.HasNext)
	assert.True(t, meta3.HasPrev)

	page4, meta4, err := (&models.Post{}).FindFeed(db, user.ID, 4, 5)
	require.NoError(t, err)
	assert.Empty(t, page4)
	assert.False(t, meta4.HasNext)

	page0, meta0, err := (&models.Post{}).FindFeed(db, user.ID, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, page0)
	assert.False(t, meta0.HasNext)
	assert.False(t, meta0.HasPrev)
}

func TestFeed_PagesConcatenateToFullFeed(t *testing.T) {
	db := newTestDB(t)
	me := createUser(t, db, "me")
	other := createUser(t, db, "other")
	follow(t, db, me, other)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		createPost(t, db, me, fmt.Sprintf("me-%d", i), base.Add(time.Duration(2*i)*time.Second))
		createPost(t, db, other, fmt.Sprintf("other-%d", i), base.Add(time.Duration(2*i)*time.Second))
	}

	full, _, err := (&models.Post{}).FindFeed(db, me.ID, 1, 1000)
	require.NoError(t, err)
	require.Len(t, full, 14)

	var joined []models.Post
	for number := 1; ; number++ {
		posts, page, err := (&models.Post{}).FindFeed(db, me.ID, number, 4)
		require.NoError(t, err)
		joined = append(joined, posts...)
		if !page.HasNext {
			break
		}
	}

	require.Len(t, joined, len(full))
	for i := range full {
		assert.Equal(t, full[i].ID, joined[i].ID)
	}
}

func TestFindAllAndUserPosts(t *testing.T) {
	db := newTestDB(t)
	a := createUser(t, db, "aaa")
	b := createUser(t, db, "bbb")
	now := time.Now()
	createPost(t, db, a, "from a", now.Add(-time.Minute))
	createPost(t, db, b, "from b", now)

	all, page, err := (&models.Post{}).FindAllPosts(db, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"from b", "from a"}, bodies(all))
	assert.Equal(t, 1, page.Pages)

	mine, _, err := (&models.Post{}).FindUserPosts(db, a.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"from a"}, bodies(mine))
}

func TestPostValidate(t *testing.T) {
	post := models.Post{Body: "   ", UserID: 1}
	post.Prepare()
	assert.Contains(t, post.Validate(), "Required_body")

	long := make([]rune, models.MaxPostLength+1)
	for i := range long {
		long[i] = 'x'
	}
	post = models.Post{Body: string(long), UserID: 1}
	post.Prepare()
	assert.Contains(t, post.Validate(), "Invalid_body")

	post = models.Post{Body: "<b>hi</b>"}
	post.Prepare()
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", post.Body)
	assert.Contains(t, post.Validate(), "Required_user")
}
