package models

import "time"

// BlogModel is an authored blog post. Content is an ordered sequence of
// typed blocks stored as a JSON column. Slug is derived once at creation
// and never changes.
type BlogModel struct {
	Base
	Title       string      `json:"title"       gorm:"not null"`
	Description string      `json:"description" gorm:"type:text"`
	Slug        string      `json:"blogId"      gorm:"size:191;uniqueIndex;not null"`
	Content     []Block     `json:"content"     gorm:"type:longtext;serializer:json"`
	Tags        StringArray `json:"tags"        gorm:"type:longtext"`
	Draft       bool        `json:"draft"`
	CoverImage  string      `json:"image"`
	CoverImageID string     `json:"-"`

	CreatorID string     `json:"creatorId" gorm:"type:char(36);index;not null"`
	Creator   *UserModel `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`

	Comments []CommentModel `json:"comments,omitempty" gorm:"foreignKey:BlogID"`
}

func (BlogModel) TableName() string { return "blogs" }

// BlogLike marks that a user liked a blog. Set semantics via the unique
// composite index.
type BlogLike struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"type:char(36);uniqueIndex:idx_blog_like;not null"`
	BlogID    string    `gorm:"type:char(36);uniqueIndex:idx_blog_like;index;not null"`
	CreatedAt time.Time
}

func (BlogLike) TableName() string { return "blog_likes" }

// BlogSave marks that a user saved a blog for later.
type BlogSave struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"type:char(36);uniqueIndex:idx_blog_save;not null"`
	BlogID    string    `gorm:"type:char(36);uniqueIndex:idx_blog_save;index;not null"`
	CreatedAt time.Time
}

func (BlogSave) TableName() string { return "blog_saves" }
