package models

import "time"

// UserModel is a platform account. Accounts are created either locally
// (password + email verification) or through Google sign-in.
type UserModel struct {
	Base
	Name           string `json:"name"           gorm:"not null"`
	Email          string `json:"email"          gorm:"size:191;uniqueIndex;not null"`
	Username       string `json:"username"       gorm:"size:191;uniqueIndex;not null"`
	Password       string `json:"-"`
	Bio            string `json:"bio"            gorm:"type:text"`
	ProfilePic     string `json:"profilePic"`
	ProfilePicID   string `json:"-"`
	IsVerified     bool   `json:"isVerify"`
	GoogleAuth     bool   `json:"googleAuth"`
	ShowLikedBlogs bool   `json:"showLikedBlogs" gorm:"default:true"`
	ShowSavedBlogs bool   `json:"showSavedBlogs" gorm:"default:true"`

	Blogs []BlogModel `json:"blogs,omitempty" gorm:"foreignKey:CreatorID"`
}

func (UserModel) TableName() string { return "users" }

// UserFollow is one edge of the social graph: follower follows followee.
// The composite unique index makes duplicate membership impossible.
type UserFollow struct {
	ID         uint   `gorm:"primaryKey"`
	FollowerID string `gorm:"type:char(36);uniqueIndex:idx_follow_edge;not null"`
	FolloweeID string `gorm:"type:char(36);uniqueIndex:idx_follow_edge;index;not null"`
	CreatedAt  time.Time
}

func (UserFollow) TableName() string { return "user_follows" }
