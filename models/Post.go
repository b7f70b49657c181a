package models

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"Chirp/utils/pagination"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const MaxPostLength = 280

type Post struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:varchar(36);uniqueIndex;column:public_id" json:"public_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	UserID    uint      `gorm:"not null;index:idx_posts_user_created,priority:1" json:"user_id"`
	Author    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `gorm:"index;index:idx_posts_user_created,priority:2" json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.PublicID) == "" {
		p.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (p *Post) Prepare() {
	p.ID = 0
	p.Body = html.EscapeString(strings.TrimSpace(p.Body))
	p.Author = User{}
	p.CreatedAt = time.Now().UTC()
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.Body == "" {
		errorMessages["Required_body"] = "Body is required"
	} else if utf8.RuneCountInString(html.UnescapeString(p.Body)) > MaxPostLength {
		errorMessages["Invalid_body"] = fmt.Sprintf("Body should be at most %d characters", MaxPostLength)
	}
	if p.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if len(p.Validate()) > 0 {
		return nil, ErrInvalidPostInput
	}
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}
	if err := db.Where("id = ?", p.UserID).Take(&p.Author).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindFeed returns one page of the posts written by uid or by anyone uid
// follows, newest first. Ties on created_at fall back to id so the order is total.
func (p *Post) FindFeed(db *gorm.DB, uid uint, number, size int) ([]Post, pagination.Page, error) {
	followed, err := FollowedUserIDs(db, uid)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	authors := append([]uint{uid}, followed...)
	return findPostsPage(db.Where("posts.user_id IN ?", authors), number, size)
}

// FindAllPosts pages through every post in the system.
func (p *Post) FindAllPosts(db *gorm.DB, number, size int) ([]Post, pagination.Page, error) {
	return findPostsPage(db, number, size)
}

func (p *Post) FindUserPosts(db *gorm.DB, uid uint, number, size int) ([]Post, pagination.Page, error) {
	return findPostsPage(db.Where("posts.user_id = ?", uid), number, size)
}

func findPostsPage(scope *gorm.DB, number, size int) ([]Post, pagination.Page, error) {
	var total int64
	if err := scope.Session(&gorm.Session{}).Model(&Post{}).Count(&total).Error; err != nil {
		return nil, pagination.Page{}, err
	}

	page := pagination.New(number, size, total)
	posts := []Post{}
	if !page.InRange() {
		return posts, page, nil
	}

	err := scope.Session(&gorm.Session{}).
		Preload("Author").
		Order("posts.created_at DESC, posts.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&posts).Error
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return posts, page, nil
}
