package user

import (
	"context"
	"errors"
	"strings"

	"github.com/inkverse/core/internal/models"
	"github.com/inkverse/core/internal/pkg/imagestore"
	"gorm.io/gorm"
)

// Service manages profiles and the social graph.
type Service struct {
	db    *gorm.DB
	store imagestore.Uploader
}

func NewService(db *gorm.DB, store imagestore.Uploader) *Service {
	return &Service{db: db, store: store}
}

// List returns all users, newest first.
func (s *Service) List() ([]models.UserModel, error) {
	var users []models.UserModel
	err := s.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// GetProfile loads a user by username with authored blogs and follow id
// lists. Liked and saved blog lists are included only when the matching
// visibility flag is on or the viewer is the profile owner.
func (s *Service) GetProfile(username, viewerID string) (*Profile, error) {
	var u models.UserModel
	if err := s.db.First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}

	p := &Profile{User: u}

	if err := s.db.Where("creator_id = ? AND draft = ?", u.ID, false).
		Order("created_at DESC").Find(&p.Blogs).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.UserFollow{}).Where("followee_id = ?", u.ID).
		Pluck("follower_id", &p.Followers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.UserFollow{}).Where("follower_id = ?", u.ID).
		Pluck("followee_id", &p.Following).Error; err != nil {
		return nil, err
	}

	isSelf := viewerID != "" && viewerID == u.ID
	if u.ShowLikedBlogs || isSelf {
		if err := s.joinedBlogs("blog_likes", u.ID, &p.LikeBlogs); err != nil {
			return nil, err
		}
	}
	if u.ShowSavedBlogs || isSelf {
		if err := s.joinedBlogs("blog_saves", u.ID, &p.SaveBlogs); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Update changes the user's own profile fields. A new avatar replaces the
// hosted image; the old object is deleted.
func (s *Service) Update(ctx context.Context, userID, targetID string, in UpdateUserInput) (*models.UserModel, error) {
	if userID != targetID {
		return nil, errNotSelf
	}

	var u models.UserModel
	if err := s.db.First(&u, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username != "" && username != u.Username {
			var count int64
			if err := s.db.Model(&models.UserModel{}).
				Where("username = ? AND id <> ?", username, u.ID).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, errUsernameTaken
			}
			u.Username = username
		}
	}

	if in.Avatar != nil {
		key := imagestore.ObjectKey("avatars", in.Avatar.Filename)
		url, err := s.store.Upload(ctx, key, in.Avatar.Data, in.Avatar.ContentType)
		if err != nil {
			return nil, err
		}
		if u.ProfilePicID != "" {
			_ = s.store.Delete(ctx, u.ProfilePicID)
		}
		u.ProfilePic = url
		u.ProfilePicID = key
	}

	if err := s.db.Save(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes the user's own account with everything it owns: blogs
// with their comment forests and like/save rows, the user's comments and
// reactions, and follow edges. Hosted images go best-effort after commit.
func (s *Service) Delete(ctx context.Context, userID, targetID string) error {
	if userID != targetID {
		return errNotSelf
	}

	var u models.UserModel
	if err := s.db.First(&u, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errUserNotFound
		}
		return err
	}

	var blogs []models.BlogModel
	if err := s.db.Where("creator_id = ?", u.ID).Find(&blogs).Error; err != nil {
		return err
	}

	var imageIDs []string
	if u.ProfilePicID != "" {
		imageIDs = append(imageIDs, u.ProfilePicID)
	}
	blogIDs := make([]string, 0, len(blogs))
	for _, b := range blogs {
		blogIDs = append(blogIDs, b.ID)
		imageIDs = append(imageIDs, models.HostedImageIDs(b.Content)...)
		if b.CoverImageID != "" {
			imageIDs = append(imageIDs, b.CoverImageID)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(blogIDs) > 0 {
			if err := tx.Where("blog_id IN ?", blogIDs).Delete(&models.CommentModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("blog_id IN ?", blogIDs).Delete(&models.BlogLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("blog_id IN ?", blogIDs).Delete(&models.BlogSave{}).Error; err != nil {
				return err
			}
			if err := tx.Where("creator_id = ?", u.ID).Delete(&models.BlogModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.BlogLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.BlogSave{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followee_id = ?", u.ID, u.ID).Delete(&models.UserFollow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&u).Error
	})
	if err != nil {
		return err
	}

	for _, id := range imageIDs {
		_ = s.store.Delete(ctx, id)
	}
	return nil
}

// ToggleFollow flips the follower→target edge and reports the new state.
// One call follows, the next unfollows; the unique index keeps the edge
// set duplicate-free.
func (s *Service) ToggleFollow(followerID, targetID string) (bool, error) {
	if followerID == targetID {
		return false, errCannotFollowSelf
	}

	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, errUserNotFound
	}

	res := s.db.Where("follower_id = ? AND followee_id = ?", followerID, targetID).
		Delete(&models.UserFollow{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	return true, s.db.Create(&models.UserFollow{FollowerID: followerID, FolloweeID: targetID}).Error
}

// SetVisibility updates the liked/saved list visibility flags.
func (s *Service) SetVisibility(userID string, dto VisibilityDTO) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.ShowLikedBlogs != nil {
		updates["show_liked_blogs"] = *dto.ShowLikedBlogs
		u.ShowLikedBlogs = *dto.ShowLikedBlogs
	}
	if dto.ShowSavedBlogs != nil {
		updates["show_saved_blogs"] = *dto.ShowSavedBlogs
		u.ShowSavedBlogs = *dto.ShowSavedBlogs
	}
	if len(updates) == 0 {
		return &u, nil
	}
	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) joinedBlogs(joinTable, userID string, dest *[]models.BlogModel) error {
	return s.db.Model(&models.BlogModel{}).
		Joins("JOIN "+joinTable+" ON "+joinTable+".blog_id = blogs.id").
		Where(joinTable+".user_id = ? AND blogs.draft = ?", userID, false).
		Order(joinTable + ".created_at DESC").
		Find(dest).Error
}
