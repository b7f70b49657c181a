package seed

import (
	"fmt"
	"time"

	"Chirp/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const demoPassword = "password"

var users = []models.User{
	{Username: "steven", Email: "steven@example.com", Bio: "Posting from the demo account."},
	{Username: "martin", Email: "luther@example.com", Bio: "Here for the follows."},
	{Username: "ada", Email: "ada@example.com"},
}

var posts = []struct {
	author int
	body   string
}{
	{0, "Hello, Chirp!"},
	{1, "Lorem ipsum dolor sit amet, consectetur adipiscing elit."},
	{2, "First post from ada."},
	{0, "Follow martin for more lorem ipsum."},
	{1, "Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."},
	{2, "Pagination is five posts a page."},
}

// follower -> followed
var follows = [][2]int{{0, 1}, {1, 0}, {2, 0}}

// Load fills an empty database with demo users, posts and follows. A
// database that already has users is left untouched.
func Load(db *gorm.DB, logger logrus.FieldLogger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("cannot count users: %w", err)
	}
	if count > 0 {
		logger.WithField("users", count).Info("database not empty, skipping demo seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		saved := make([]*models.User, len(users))
		for i := range users {
			user := users[i]
			user.Password = demoPassword
			user.Prepare()
			created, err := user.SaveUser(tx)
			if err != nil {
				return fmt.Errorf("cannot seed users table: %w", err)
			}
			saved[i] = created
		}

		base := time.Now().UTC().Add(-time.Duration(len(posts)) * time.Minute)
		for i, p := range posts {
			post := models.Post{Body: p.body, UserID: saved[p.author].ID}
			post.Prepare()
			post.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			if _, err := post.SavePost(tx); err != nil {
				return fmt.Errorf("cannot seed posts table: %w", err)
			}
		}

		for _, edge := range follows {
			follow := models.Follow{FollowerID: saved[edge[0]].ID, FollowedID: saved[edge[1]].ID}
			if _, err := follow.SaveFollow(tx); err != nil {
				return fmt.Errorf("cannot seed follows table: %w", err)
			}
		}

		logger.WithFields(logrus.Fields{
			"users":   len(users),
			"posts":   len(posts),
			"follows": len(follows),
		}).Info("seeded demo data")
		return nil
	})
}
