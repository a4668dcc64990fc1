package blog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/inkverse/core/internal/models"
	"github.com/inkverse/core/internal/pkg/imagestore"
	"github.com/inkverse/core/internal/pkg/pagination"
	"github.com/inkverse/core/internal/pkg/response"
	"gorm.io/gorm"
)

const blogCacheTTL = 5 * time.Minute

// cacheClient is the subset of the redis client the blog read path uses.
// A nil client disables caching.
type cacheClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service orchestrates blog persistence, image hosting, and the
// slug-keyed read cache.
type Service struct {
	db    *gorm.DB
	store imagestore.Uploader
	cache cacheClient
}

func NewService(db *gorm.DB, store imagestore.Uploader, cache cacheClient) *Service {
	return &Service{db: db, store: store, cache: cache}
}

func blogCacheKey(slug string) string { return "ink:blogs:slug:" + slug }

// Create validates input, hosts image-block binaries and the cover, mints
// the slug, and persists the blog. Drafts only need a title.
func (s *Service) Create(ctx context.Context, creatorID string, in CreateBlogInput) (*models.BlogModel, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errTitleRequired
	}
	if !in.Draft {
		if strings.TrimSpace(in.Description) == "" {
			return nil, errDescriptionMissing
		}
		if len(in.Content) == 0 {
			return nil, errContentMissing
		}
	}

	content, err := s.hostImageBlocks(ctx, in.Content, in.Images)
	if err != nil {
		return nil, err
	}

	b := models.BlogModel{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Slug:        makeSlug(in.Title),
		Content:     content,
		Tags:        in.Tags,
		Draft:       in.Draft,
		CreatorID:   creatorID,
	}
	if in.Cover != nil {
		key := imagestore.ObjectKey("covers", in.Cover.Filename)
		url, err := s.store.Upload(ctx, key, in.Cover.Data, in.Cover.ContentType)
		if err != nil {
			return nil, err
		}
		b.CoverImage = url
		b.CoverImageID = key
	}

	if err := s.db.Create(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns published blogs, newest first.
func (s *Service) List(q pagination.Query) ([]models.BlogModel, response.Pagination, error) {
	query := s.db.Model(&models.BlogModel{}).
		Where("draft = ?", false).
		Order("created_at DESC").
		Preload("Creator")

	var blogs []models.BlogModel
	p, err := pagination.Paginate(query, q, &blogs)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return blogs, p, nil
}

// GetBySlug returns the blog with its creator populated. Reads are served
// from the cache when possible; writes invalidate by slug, so cached
// copies only go stale for the TTL under out-of-band edits.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.BlogModel, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, blogCacheKey(slug)); err == nil && raw != "" {
			var b models.BlogModel
			if json.Unmarshal([]byte(raw), &b) == nil {
				return &b, nil
			}
		}
	}

	var b models.BlogModel
	err := s.db.Preload("Creator").First(&b, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBlogNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(&b); err == nil {
			_ = s.cache.Set(ctx, blogCacheKey(slug), raw, blogCacheTTL)
		}
	}
	return &b, nil
}

// dropCached evicts the blog's cached read copy. Best effort.
func (s *Service) dropCached(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, blogCacheKey(slug))
}

// Update replaces a blog's editable fields. Only the creator may update.
// Hosted images the client listed as existing but that the new content no
// longer references are deleted from the asset host.
func (s *Service) Update(ctx context.Context, userID, blogID string, in UpdateBlogInput) (*models.BlogModel, error) {
	var b models.BlogModel
	if err := s.db.First(&b, "id = ?", blogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBlogNotFound
		}
		return nil, err
	}
	if b.CreatorID != userID {
		return nil, errNotBlogCreator
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, errTitleRequired
	}
	if !in.Draft {
		if strings.TrimSpace(in.Description) == "" {
			return nil, errDescriptionMissing
		}
		if len(in.Content) == 0 {
			return nil, errContentMissing
		}
	}

	content, err := s.hostImageBlocks(ctx, in.Content, in.Images)
	if err != nil {
		return nil, err
	}

	b.Title = strings.TrimSpace(in.Title)
	b.Description = in.Description
	b.Content = content
	b.Tags = in.Tags
	b.Draft = in.Draft
	if in.Cover != nil {
		key := imagestore.ObjectKey("covers", in.Cover.Filename)
		url, err := s.store.Upload(ctx, key, in.Cover.Data, in.Cover.ContentType)
		if err != nil {
			return nil, err
		}
		if b.CoverImageID != "" {
			_ = s.store.Delete(ctx, b.CoverImageID)
		}
		b.CoverImage = url
		b.CoverImageID = key
	}

	if err := s.db.Save(&b).Error; err != nil {
		return nil, err
	}

	s.deleteOrphans(ctx, in.ExistingImages, content)
	s.dropCached(ctx, b.Slug)

	return s.GetByID(blogID)
}

// GetByID returns the blog with its creator populated.
func (s *Service) GetByID(id string) (*models.BlogModel, error) {
	var b models.BlogModel
	err := s.db.Preload("Creator").First(&b, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBlogNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Delete removes a blog, its comment forest, and its like/save rows in one
// transaction. Hosted images are deleted best-effort after commit.
func (s *Service) Delete(ctx context.Context, userID, blogID string) error {
	var b models.BlogModel
	if err := s.db.First(&b, "id = ?", blogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errBlogNotFound
		}
		return err
	}
	if b.CreatorID != userID {
		return errNotBlogCreator
	}

	imageIDs := models.HostedImageIDs(b.Content)
	if b.CoverImageID != "" {
		imageIDs = append(imageIDs, b.CoverImageID)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", blogID).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", blogID).Delete(&models.BlogLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", blogID).Delete(&models.BlogSave{}).Error; err != nil {
			return err
		}
		return tx.Delete(&b).Error
	})
	if err != nil {
		return err
	}

	s.dropCached(ctx, b.Slug)
	for _, id := range imageIDs {
		_ = s.store.Delete(ctx, id)
	}
	return nil
}

// ToggleLike flips the user's like on a blog and reports the new state.
func (s *Service) ToggleLike(userID, blogID string) (bool, error) {
	return s.toggleJoin(userID, blogID, &models.BlogLike{})
}

// ToggleSave flips the user's save on a blog and reports the new state.
func (s *Service) ToggleSave(userID, blogID string) (bool, error) {
	return s.toggleJoin(userID, blogID, &models.BlogSave{})
}

func (s *Service) toggleJoin(userID, blogID string, model interface{}) (bool, error) {
	var blogCount int64
	if err := s.db.Model(&models.BlogModel{}).Where("id = ?", blogID).Count(&blogCount).Error; err != nil {
		return false, err
	}
	if blogCount == 0 {
		return false, errBlogNotFound
	}

	res := s.db.Where("user_id = ? AND blog_id = ?", userID, blogID).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	switch model.(type) {
	case *models.BlogLike:
		return true, s.db.Create(&models.BlogLike{UserID: userID, BlogID: blogID}).Error
	default:
		return true, s.db.Create(&models.BlogSave{UserID: userID, BlogID: blogID}).Error
	}
}

// LikeUserIDs returns the ids of users who liked the blog.
func (s *Service) LikeUserIDs(blogID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.BlogLike{}).Where("blog_id = ?", blogID).
		Order("created_at ASC").Pluck("user_id", &ids).Error
	return ids, err
}

// SaveUserIDs returns the ids of users who saved the blog.
func (s *Service) SaveUserIDs(blogID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.BlogSave{}).Where("blog_id = ?", blogID).
		Order("created_at ASC").Pluck("user_id", &ids).Error
	return ids, err
}

// Drafts lists the user's unpublished blogs.
func (s *Service) Drafts(userID string, q pagination.Query) ([]models.BlogModel, response.Pagination, error) {
	query := s.db.Model(&models.BlogModel{}).
		Where("creator_id = ? AND draft = ?", userID, true).
		Order("created_at DESC")

	var blogs []models.BlogModel
	p, err := pagination.Paginate(query, q, &blogs)
	return blogs, p, err
}

// Liked lists published blogs the user liked, most recent like first.
func (s *Service) Liked(userID string, q pagination.Query) ([]models.BlogModel, response.Pagination, error) {
	query := s.db.Model(&models.BlogModel{}).
		Joins("JOIN blog_likes ON blog_likes.blog_id = blogs.id").
		Where("blog_likes.user_id = ? AND blogs.draft = ?", userID, false).
		Order("blog_likes.created_at DESC").
		Preload("Creator")

	var blogs []models.BlogModel
	p, err := pagination.Paginate(query, q, &blogs)
	return blogs, p, err
}

// Saved lists published blogs the user saved, most recent save first.
func (s *Service) Saved(userID string, q pagination.Query) ([]models.BlogModel, response.Pagination, error) {
	query := s.db.Model(&models.BlogModel{}).
		Joins("JOIN blog_saves ON blog_saves.blog_id = blogs.id").
		Where("blog_saves.user_id = ? AND blogs.draft = ?", userID, false).
		Order("blog_saves.created_at DESC").
		Preload("Creator")

	var blogs []models.BlogModel
	p, err := pagination.Paginate(query, q, &blogs)
	return blogs, p, err
}

// hostImageBlocks uploads pending image binaries, replacing each image
// block's payload reference with a hosted URL and deletable id. Files are
// applied in order to image blocks that have no hosted file yet.
func (s *Service) hostImageBlocks(ctx context.Context, content []models.Block, images []Upload) ([]models.Block, error) {
	out := make([]models.Block, len(content))
	copy(out, content)

	next := 0
	for i := range out {
		if out[i].Type != models.BlockImage || out[i].Image == nil {
			continue
		}
		if out[i].Image.File.ImageID != "" {
			continue
		}
		if next >= len(images) {
			continue
		}
		up := images[next]
		next++

		key := imagestore.ObjectKey("blogs", up.Filename)
		url, err := s.store.Upload(ctx, key, up.Data, up.ContentType)
		if err != nil {
			return nil, err
		}
		img := *out[i].Image
		img.File = models.BlockFile{URL: url, ImageID: key}
		out[i].Image = &img
	}
	return out, nil
}

// deleteOrphans removes previously hosted images that the updated content
// no longer references. Best effort: a failed delete never fails the
// update.
func (s *Service) deleteOrphans(ctx context.Context, existing []string, content []models.Block) {
	if len(existing) == 0 {
		return
	}
	still := make(map[string]bool)
	for _, id := range models.HostedImageIDs(content) {
		still[id] = true
	}
	for _, id := range existing {
		if id != "" && !still[id] {
			_ = s.store.Delete(ctx, id)
		}
	}
}
