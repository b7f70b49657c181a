package models_test

import (
	"testing"
	"time"

	"Chirp/models"
	"Chirp/security"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	security.Cost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open in-memory database")

	// Every pooled connection to ":memory:" is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	user.Prepare()
	require.Empty(t, user.Validate(""))
	saved, err := user.SaveUser(db)
	require.NoError(t, err)
	return saved
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, body string, at time.Time) *models.Post {
	t.Helper()
	post := models.Post{Body: body, UserID: author.ID}
	post.Prepare()
	post.CreatedAt = at.UTC()
	saved, err := post.SavePost(db)
	require.NoError(t, err)
	return saved
}

func follow(t *testing.T, db *gorm.DB, follower, followed *models.User) bool {
	t.Helper()
	var created bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		f := models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
		created, err = f.SaveFollow(tx)
		return err
	})
	require.NoError(t, err)
	return created
}

func bodies(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Body
	}
	return out
}
