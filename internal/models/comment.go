package models

// CommentModel is one node of a blog's comment forest. Top-level comments
// have a nil ParentID; replies point at their parent, which must belong to
// the same blog. Children are resolved at query time through the parent
// index, ordered by creation.
type CommentModel struct {
	Base
	BlogID   string      `json:"blogId"   gorm:"type:char(36);index;not null"`
	UserID   string      `json:"userId"   gorm:"type:char(36);index;not null"`
	ParentID *string     `json:"parentId" gorm:"type:char(36);index"`
	Text     string      `json:"text"     gorm:"type:text;not null"`
	Likes    StringArray `json:"likes"    gorm:"type:longtext"`

	User     *UserModel     `json:"user,omitempty"    gorm:"foreignKey:UserID"`
	Children []CommentModel `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

func (CommentModel) TableName() string { return "comments" }
