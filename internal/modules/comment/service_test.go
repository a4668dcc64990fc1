package comment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/core/internal/database"
	"github.com/inkverse/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.UserModel {
	t.Helper()
	u := models.UserModel{
		Name:       name,
		Email:      name + "@example.com",
		Username:   name + "-" + uuid.NewString()[:5],
		IsVerified: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createTestBlog(t *testing.T, db *gorm.DB, creatorID string) *models.BlogModel {
	t.Helper()
	b := models.BlogModel{
		Title:       "A Test Blog",
		Description: "about testing",
		Slug:        "a-test-blog-" + uuid.NewString()[:10],
		CreatorID:   creatorID,
	}
	require.NoError(t, db.Create(&b).Error)
	return &b
}

// Comment timestamps only need to be distinct at storage precision for
// ordering assertions.
func tick() { time.Sleep(2 * time.Millisecond) }

func TestCreateTopLevelComment(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	blog := createTestBlog(t, db, author.ID)

	node, err := svc.Create(blog.ID, author.ID, "  first!  ")
	require.NoError(t, err)
	assert.Equal(t, "first!", node.Text)
	assert.Nil(t, node.ParentID)
	assert.Equal(t, blog.ID, node.BlogID)
	assert.Empty(t, node.Likes)
	require.NotNil(t, node.User)
	assert.Equal(t, "alice", node.User.Name)

	_, err = svc.Create(blog.ID, author.ID, "   ")
	assert.ErrorIs(t, err, errTextRequired)

	_, err = svc.Create(uuid.NewString(), author.ID, "orphan")
	assert.ErrorIs(t, err, errBlogNotFound)
}

func TestReplyReturnsTopLevelAncestorSubtree(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	blog := createTestBlog(t, db, author.ID)

	root, err := svc.Create(blog.ID, author.ID, "root")
	require.NoError(t, err)
	tick()

	sub, err := svc.Reply(root.ID, blog.ID, author.ID, "child")
	require.NoError(t, err)
	assert.Equal(t, root.ID, sub.ID)
	require.Len(t, sub.Children, 1)
	assert.Equal(t, "child", sub.Children[0].Text)

	// Replying deep in the tree still returns the same top-level root.
	childID := sub.Children[0].ID
	tick()
	sub, err = svc.Reply(childID, blog.ID, author.ID, "grandchild")
	require.NoError(t, err)
	assert.Equal(t, root.ID, sub.ID)
	require.Len(t, sub.Children, 1)
	require.Len(t, sub.Children[0].Children, 1)
	assert.Equal(t, "grandchild", sub.Children[0].Children[0].Text)
}

func TestReplyAppendsLast(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	blog := createTestBlog(t, db, author.ID)

	root, err := svc.Create(blog.ID, author.ID, "root")
	require.NoError(t, err)
	tick()
	_, err = svc.Reply(root.ID, blog.ID, author.ID, "first reply")
	require.NoError(t, err)
	tick()
	sub, err := svc.Reply(root.ID, blog.ID, author.ID, "second reply")
	require.NoError(t, err)

	require.Len(t, sub.Children, 2)
	assert.Equal(t, "first reply", sub.Children[0].Text)
	assert.Equal(t, "second reply", sub.Children[1].Text)
}

func TestReplyParentValidation(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	blog := createTestBlog(t, db, author.ID)
	other := createTestBlog(t, db, author.ID)

	root, err := svc.Create(blog.ID, author.ID, "root")
	require.NoError(t, err)

	_, err = svc.Reply(uuid.NewString(), blog.ID, author.ID, "no parent")
	assert.ErrorIs(t, err, errCommentParentNotFound)

	// Parent must belong to the blog the reply targets.
	_, err = svc.Reply(root.ID, other.ID, author.ID, "wrong blog")
	assert.ErrorIs(t, err, errCommentParentNotFound)
}

func TestToggleLikeInvolution(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	liker := createTestUser(t, db, "bob")
	blog := createTestBlog(t, db, author.ID)

	node, err := svc.Create(blog.ID, author.ID, "like me")
	require.NoError(t, err)

	liked, err := svc.ToggleLike(node.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringArray{liker.ID}, liked.Likes)

	// Liking again from the same user removes the membership.
	unliked, err := svc.ToggleLike(node.ID, liker.ID)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = svc.ToggleLike(uuid.NewString(), liker.ID)
	assert.ErrorIs(t, err, errCommentNotFound)
}

func TestEditOnlyChangesText(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	stranger := createTestUser(t, db, "bob")
	blog := createTestBlog(t, db, author.ID)

	root, err := svc.Create(blog.ID, author.ID, "original")
	require.NoError(t, err)
	tick()
	_, err = svc.Reply(root.ID, blog.ID, stranger.ID, "reply")
	require.NoError(t, err)
	liked, err := svc.ToggleLike(root.ID, stranger.ID)
	require.NoError(t, err)

	edited, err := svc.Edit(root.ID, author.ID, "rewritten")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", edited.Text)
	assert.Equal(t, liked.Likes, edited.Likes)
	assert.Equal(t, root.ID, edited.ID)

	// Children survive the edit.
	sub, err := svc.Subtree(root.ID)
	require.NoError(t, err)
	require.Len(t, sub.Children, 1)
	assert.Equal(t, "reply", sub.Children[0].Text)

	_, err = svc.Edit(root.ID, stranger.ID, "hijack")
	assert.ErrorIs(t, err, errNotCommentAuthor)
}

func TestDeleteRemovesSubtreeOnly(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	blog := createTestBlog(t, db, author.ID)

	rootA, err := svc.Create(blog.ID, author.ID, "thread A")
	require.NoError(t, err)
	tick()
	rootB, err := svc.Create(blog.ID, author.ID, "thread B")
	require.NoError(t, err)
	tick()

	sub, err := svc.Reply(rootA.ID, blog.ID, author.ID, "child of A")
	require.NoError(t, err)
	childID := sub.Children[0].ID
	tick()
	_, err = svc.Reply(childID, blog.ID, author.ID, "grandchild of A")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(childID, author.ID))

	forest, err := svc.ForestForBlog(blog.ID)
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Equal(t, rootA.ID, forest[0].ID)
	assert.Empty(t, forest[0].Children)
	assert.Equal(t, rootB.ID, forest[1].ID)

	var remaining int64
	require.NoError(t, db.Model(&models.CommentModel{}).Where("blog_id = ?", blog.ID).Count(&remaining).Error)
	assert.EqualValues(t, 2, remaining)
}

func TestDeleteAuthorOnly(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	stranger := createTestUser(t, db, "bob")
	blog := createTestBlog(t, db, author.ID)

	node, err := svc.Create(blog.ID, author.ID, "mine")
	require.NoError(t, err)

	err = svc.Delete(node.ID, stranger.ID)
	assert.ErrorIs(t, err, errNotCommentAuthor)

	err = svc.Delete(uuid.NewString(), author.ID)
	assert.ErrorIs(t, err, errCommentNotFound)
}

func TestForestForBlogEmpty(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db)
	author := createTestUser(t, db, "alice")
	blog := createTestBlog(t, db, author.ID)

	forest, err := svc.ForestForBlog(blog.ID)
	require.NoError(t, err)
	assert.Empty(t, forest)
}
