package models

import (
	"time"

	"Chirp/utils/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Follow struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;check:follows_no_self_follow,follower_id <> followed_id" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique" json:"followed_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate rejects self edges at the store layer as well as in handlers.
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.FollowerID == f.FollowedID {
		return ErrSelfFollow
	}
	return nil
}

// SaveFollow inserts the edge and bumps both counters. Following an existing
// edge is a no-op and reports created=false. Call inside a transaction.
func (f *Follow) SaveFollow(tx *gorm.DB) (created bool, err error) {
	if f.FollowerID == f.FollowedID {
		return false, ErrSelfFollow
	}

	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := tx.Model(&User{}).
		Where("id = ?", f.FollowerID).
		UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&User{}).
		Where("id = ?", f.FollowedID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteFollow removes the edge and decrements both counters. Removing a
// missing edge is a no-op and reports removed=false. Call inside a transaction.
func (f *Follow) DeleteFollow(tx *gorm.DB) (removed bool, err error) {
	if f.FollowerID == f.FollowedID {
		return false, ErrSelfFollow
	}

	result := tx.Where("follower_id = ? AND followed_id = ?", f.FollowerID, f.FollowedID).
		Delete(&Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := tx.Model(&User{}).
		Where("id = ?", f.FollowerID).
		UpdateColumn("following_count", gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&User{}).
		Where("id = ?", f.FollowedID).
		UpdateColumn("followers_count", gorm.Expr("CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END")).Error; err != nil {
		return false, err
	}
	return true, nil
}

func IsFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// FollowedUserIDs returns the ids uid follows.
func FollowedUserIDs(db *gorm.DB, uid uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&Follow{}).Where("follower_id = ?", uid).Pluck("followed_id", &ids).Error
	return ids, err
}

// FollowerIDs returns the ids following uid.
func FollowerIDs(db *gorm.DB, uid uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&Follow{}).Where("followed_id = ?", uid).Pluck("follower_id", &ids).Error
	return ids, err
}

// FindFollowers pages through the users following uid, most recent edge first.
func FindFollowers(db *gorm.DB, uid uint, number, size int) ([]User, pagination.Page, error) {
	return findFollowUsers(db, "follows.followed_id = ?", "users.id = follows.follower_id", uid, number, size)
}

// FindFollowing pages through the users uid follows, most recent edge first.
func FindFollowing(db *gorm.DB, uid uint, number, size int) ([]User, pagination.Page, error) {
	return findFollowUsers(db, "follows.follower_id = ?", "users.id = follows.followed_id", uid, number, size)
}

func findFollowUsers(db *gorm.DB, whereClause, joinClause string, uid uint, number, size int) ([]User, pagination.Page, error) {
	var total int64
	if err := db.Model(&Follow{}).Where(whereClause, uid).Count(&total).Error; err != nil {
		return nil, pagination.Page{}, err
	}

	page := pagination.New(number, size, total)
	users := []User{}
	if !page.InRange() {
		return users, page, nil
	}

	err := db.Table("users").
		Select("users.*").
		Joins("JOIN follows ON "+joinClause).
		Where(whereClause, uid).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&users).Error
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return users, page, nil
}
