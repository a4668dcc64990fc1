package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/inkverse/core/internal/database"
	"github.com/inkverse/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeStore struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string][]byte{}}
}

func (f *fakeStore) Upload(_ context.Context, key string, payload []byte, _ string) (string, error) {
	f.uploads[key] = payload
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

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
		Username:   name,
		IsVerified: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createTestBlog(t *testing.T, db *gorm.DB, creatorID string, draft bool) *models.BlogModel {
	t.Helper()
	b := models.BlogModel{
		Title:     "A Blog",
		Slug:      "a-blog-" + uuid.NewString()[:10],
		Draft:     draft,
		CreatorID: creatorID,
	}
	require.NoError(t, db.Create(&b).Error)
	return &b
}

func TestToggleFollow(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, newFakeStore())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	following, err := svc.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	var edges int64
	require.NoError(t, db.Model(&models.UserFollow{}).Count(&edges).Error)
	assert.EqualValues(t, 1, edges)

	// Second toggle unfollows; no duplicate edge either way.
	following, err = svc.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, db.Model(&models.UserFollow{}).Count(&edges).Error)
	assert.Zero(t, edges)

	_, err = svc.ToggleFollow(alice.ID, alice.ID)
	assert.ErrorIs(t, err, errCannotFollowSelf)

	_, err = svc.ToggleFollow(alice.ID, uuid.NewString())
	assert.ErrorIs(t, err, errUserNotFound)
}

func TestGetProfile(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, newFakeStore())
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	published := createTestBlog(t, db, alice.ID, false)
	createTestBlog(t, db, alice.ID, true)

	_, err := svc.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.BlogLike{UserID: alice.ID, BlogID: published.ID}).Error)

	p, err := svc.GetProfile("alice", "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, p.User.ID)
	require.Len(t, p.Blogs, 1)
	assert.Equal(t, published.ID, p.Blogs[0].ID)
	assert.Equal(t, []string{bob.ID}, p.Followers)
	assert.Empty(t, p.Following)
	require.Len(t, p.LikeBlogs, 1)

	_, err = svc.GetProfile("nobody", "")
	assert.ErrorIs(t, err, errUserNotFound)
}

func TestGetProfileVisibility(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, newFakeStore())
	alice := createTestUser(t, db, "alice")
	published := createTestBlog(t, db, alice.ID, false)
	require.NoError(t, db.Create(&models.BlogLike{UserID: alice.ID, BlogID: published.ID}).Error)

	_, err := svc.SetVisibility(alice.ID, VisibilityDTO{ShowLikedBlogs: boolPtr(false)})
	require.NoError(t, err)

	// Hidden from anonymous and other viewers.
	p, err := svc.GetProfile("alice", "")
	require.NoError(t, err)
	assert.Nil(t, p.LikeBlogs)

	// The owner always sees their own lists.
	p, err = svc.GetProfile("alice", alice.ID)
	require.NoError(t, err)
	require.Len(t, p.LikeBlogs, 1)
}

func TestUpdateProfile(t *testing.T) {
	db := setupDB(t)
	store := newFakeStore()
	svc := NewService(db, store)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	ctx := context.Background()

	_, err := svc.Update(ctx, alice.ID, bob.ID, UpdateUserInput{})
	assert.ErrorIs(t, err, errNotSelf)

	_, err = svc.Update(ctx, alice.ID, alice.ID, UpdateUserInput{Username: strPtr("bob")})
	assert.ErrorIs(t, err, errUsernameTaken)

	u, err := svc.Update(ctx, alice.ID, alice.ID, UpdateUserInput{
		Name: strPtr("Alice A."),
		Bio:  strPtr("writes about Go"),
		Avatar: &Avatar{
			Data:        []byte("png"),
			ContentType: "image/png",
			Filename:    "me.png",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", u.Name)
	assert.Equal(t, "writes about Go", u.Bio)
	assert.NotEmpty(t, u.ProfilePicID)
	assert.Equal(t, "https://cdn.test/"+u.ProfilePicID, u.ProfilePic)

	// A replacement avatar deletes the previous object.
	oldKey := u.ProfilePicID
	u, err = svc.Update(ctx, alice.ID, alice.ID, UpdateUserInput{
		Avatar: &Avatar{Data: []byte("png2"), ContentType: "image/png", Filename: "me2.png"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, u.ProfilePicID)
	assert.Contains(t, store.deleted, oldKey)
}

func TestDeleteAccount(t *testing.T) {
	db := setupDB(t)
	store := newFakeStore()
	svc := NewService(db, store)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	ctx := context.Background()

	blog := createTestBlog(t, db, alice.ID, false)
	require.NoError(t, db.Create(&models.CommentModel{BlogID: blog.ID, UserID: bob.ID, Text: "bye"}).Error)
	require.NoError(t, db.Create(&models.BlogLike{UserID: bob.ID, BlogID: blog.ID}).Error)
	_, err := svc.ToggleFollow(bob.ID, alice.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, alice.ID), errNotSelf)
	require.NoError(t, svc.Delete(ctx, alice.ID, alice.ID))

	var users, blogs, comments, likes, edges int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.BlogModel{}).Count(&blogs).Error)
	require.NoError(t, db.Model(&models.CommentModel{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.BlogLike{}).Count(&likes).Error)
	require.NoError(t, db.Model(&models.UserFollow{}).Count(&edges).Error)
	assert.EqualValues(t, 1, users)
	assert.Zero(t, blogs)
	assert.Zero(t, comments)
	assert.Zero(t, likes)
	assert.Zero(t, edges)
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
