package models

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"Chirp/security"

	"github.com/badoux/checkmail"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 6
	// bcrypt only accepts passwords up to 72 bytes.
	MaxPasswordLength = 72
	MaxBioLength      = 140
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,64}$`)

type User struct {
	ID             uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID       string    `gorm:"type:varchar(36);uniqueIndex;column:public_id" json:"public_id"`
	Username       string    `gorm:"size:64;not null;unique" json:"username"`
	Email          string    `gorm:"size:120;not null;unique" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	Bio            string    `gorm:"size:1024" json:"bio"`
	AvatarPath     string    `gorm:"size:512" json:"avatar_path"`
	LastSeen       time.Time `json:"last_seen"`
	FollowersCount int64     `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int64     `gorm:"not null;default:0" json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Username)))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	u.Bio = html.EscapeString(strings.TrimSpace(u.Bio))

	now := time.Now().UTC()
	if u.ID == 0 {
		u.CreatedAt = now
		u.LastSeen = now
	}
	u.UpdatedAt = now
}

// Validate returns field-keyed messages; an empty map means the user is valid
// for the given action ("", "login" or "update").
func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "login":
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		} else if len(u.Password) > MaxPasswordLength {
			errorMessages["Invalid_password"] = fmt.Sprintf("Password should be at most %d bytes", MaxPasswordLength)
		}
	case "update":
		u.validateUsername(errorMessages)
		if utf8.RuneCountInString(html.UnescapeString(u.Bio)) > MaxBioLength {
			errorMessages["Invalid_bio"] = fmt.Sprintf("Bio should be at most %d characters", MaxBioLength)
		}
	default:
		u.validateUsername(errorMessages)
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		} else if len(u.Password) < MinPasswordLength {
			errorMessages["Invalid_password"] = fmt.Sprintf("Password should be at least %d characters", MinPasswordLength)
		} else if len(u.Password) > MaxPasswordLength {
			errorMessages["Invalid_password"] = fmt.Sprintf("Password should be at most %d bytes", MaxPasswordLength)
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		} else if err := checkmail.ValidateFormat(u.Email); err != nil {
			errorMessages["Invalid_email"] = "Invalid Email"
		}
	}
	return errorMessages
}

func (u *User) validateUsername(errorMessages map[string]string) {
	if u.Username == "" {
		errorMessages["Required_username"] = "Required Username"
		return
	}
	if !usernamePattern.MatchString(u.Username) {
		errorMessages["Invalid_username"] = "Username must be 3-64 characters of letters, digits, '.', '_' or '-'"
	}
}

// AvatarURL returns the uploaded avatar, or a Gravatar identicon derived from the email.
func (u *User) AvatarURL(size int) string {
	if u.AvatarPath != "" {
		return u.AvatarPath
	}
	digest := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(digest[:]), size)
}

// SaveUser hashes the plaintext password and inserts the user.
func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	if err := u.HashPassword(); err != nil {
		return nil, err
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	err := db.Where("id = ?", uid).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	normalized := strings.ToLower(strings.TrimSpace(username))
	if normalized == "" {
		return nil, ErrUserNotFound
	}
	err := db.Where("username = ?", normalized).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether another user (not exceptID) already owns username.
func (u *User) UsernameTaken(db *gorm.DB, username string, exceptID uint) (bool, error) {
	var count int64
	err := db.Model(&User{}).
		Where("username = ? AND id <> ?", strings.ToLower(strings.TrimSpace(username)), exceptID).
		Count(&count).Error
	return count > 0, err
}

func (u *User) EmailTaken(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfile writes username and bio for uid and reloads the row.
func (u *User) UpdateProfile(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"username":   u.Username,
		"bio":        u.Bio,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, err
	}
	return u.FindUserByID(db, uid)
}

func (u *User) UpdateAvatar(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"avatar_path": u.AvatarPath,
		"updated_at":  time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, err
	}
	return u.FindUserByID(db, uid)
}

func TouchLastSeen(db *gorm.DB, uid uint, at time.Time) error {
	return db.Model(&User{}).Where("id = ?", uid).UpdateColumn("last_seen", at.UTC()).Error
}
