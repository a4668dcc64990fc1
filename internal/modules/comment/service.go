package comment

import (
	"errors"
	"strings"

	"github.com/inkverse/core/internal/models"
	"gorm.io/gorm"
)

// Service mutates per-blog comment forests. Comments live in a flat table
// keyed by id with an indexed parent reference, so operations at any depth
// are direct row lookups; only materialization walks the tree.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ForestForBlog loads the blog's full comment forest with author fields on
// every node. A blog without comments yields an empty forest.
func (s *Service) ForestForBlog(blogID string) ([]models.CommentModel, error) {
	rows, err := s.blogRows(blogID)
	if err != nil {
		return nil, err
	}
	return buildForest(rows), nil
}

// Create adds a top-level comment and returns it.
func (s *Service) Create(blogID, userID, text string) (*models.CommentModel, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errTextRequired
	}

	var blogCount int64
	if err := s.db.Model(&models.BlogModel{}).Where("id = ?", blogID).Count(&blogCount).Error; err != nil {
		return nil, err
	}
	if blogCount == 0 {
		return nil, errBlogNotFound
	}

	node := models.CommentModel{
		BlogID: blogID,
		UserID: userID,
		Text:   text,
		Likes:  models.StringArray{},
	}
	if err := s.db.Create(&node).Error; err != nil {
		return nil, err
	}
	return s.loadNode(node.ID)
}

// Reply adds a child under parentID and returns the materialized subtree
// of the parent's top-level ancestor, so clients can reconcile their
// cached tree in one shot.
func (s *Service) Reply(parentID, blogID, userID, text string) (*models.CommentModel, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errTextRequired
	}

	var parent models.CommentModel
	if err := s.db.First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCommentParentNotFound
		}
		return nil, err
	}
	if parent.BlogID != blogID {
		return nil, errCommentParentNotFound
	}

	node := models.CommentModel{
		BlogID:   parent.BlogID,
		UserID:   userID,
		ParentID: &parent.ID,
		Text:     text,
		Likes:    models.StringArray{},
	}
	if err := s.db.Create(&node).Error; err != nil {
		return nil, err
	}

	rootID, err := s.topLevelAncestor(&parent)
	if err != nil {
		return nil, err
	}
	return s.Subtree(rootID)
}

// Subtree materializes the tree rooted at the given comment.
func (s *Service) Subtree(rootID string) (*models.CommentModel, error) {
	var root models.CommentModel
	if err := s.db.First(&root, "id = ?", rootID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCommentNotFound
		}
		return nil, err
	}

	rows, err := s.blogRows(root.BlogID)
	if err != nil {
		return nil, err
	}
	forest := buildForest(rows)
	for i := range forest {
		if found := findNode(&forest[i], rootID); found != nil {
			return found, nil
		}
	}
	return nil, errCommentNotFound
}

// ToggleLike flips the user's membership in the comment's like set.
func (s *Service) ToggleLike(commentID, userID string) (*models.CommentModel, error) {
	var node models.CommentModel
	if err := s.db.First(&node, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCommentNotFound
		}
		return nil, err
	}

	node.Likes = node.Likes.Toggle(userID)
	if err := s.db.Model(&node).Update("likes", node.Likes).Error; err != nil {
		return nil, err
	}
	return s.loadNode(node.ID)
}

// Edit replaces the comment's text, leaving children, likes, and identity
// untouched. Only the author may edit.
func (s *Service) Edit(commentID, userID, text string) (*models.CommentModel, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errTextRequired
	}

	var node models.CommentModel
	if err := s.db.First(&node, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCommentNotFound
		}
		return nil, err
	}
	if node.UserID != userID {
		return nil, errNotCommentAuthor
	}

	if err := s.db.Model(&node).Update("text", text).Error; err != nil {
		return nil, err
	}
	return s.loadNode(node.ID)
}

// Delete removes the comment and its entire subtree. Only the author may
// delete. Non-descendant nodes are untouched.
func (s *Service) Delete(commentID, userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var node models.CommentModel
		if err := tx.First(&node, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errCommentNotFound
			}
			return err
		}
		if node.UserID != userID {
			return errNotCommentAuthor
		}

		ids, err := collectSubtreeIDs(tx, commentID)
		if err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.CommentModel{}).Error
	})
}

// DeleteForBlog removes a blog's whole forest (used when the blog itself
// is deleted).
func (s *Service) DeleteForBlog(tx *gorm.DB, blogID string) error {
	return tx.Where("blog_id = ?", blogID).Delete(&models.CommentModel{}).Error
}

func (s *Service) blogRows(blogID string) ([]models.CommentModel, error) {
	var rows []models.CommentModel
	err := s.db.Where("blog_id = ?", blogID).
		Order("created_at ASC, id ASC").
		Preload("User").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) loadNode(id string) (*models.CommentModel, error) {
	var node models.CommentModel
	if err := s.db.Preload("User").First(&node, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if node.Children == nil {
		node.Children = []models.CommentModel{}
	}
	return &node, nil
}

// topLevelAncestor walks the parent chain up to the forest root.
func (s *Service) topLevelAncestor(node *models.CommentModel) (string, error) {
	cur := *node
	seen := map[string]bool{cur.ID: true}
	for cur.ParentID != nil {
		var parent models.CommentModel
		if err := s.db.First(&parent, "id = ?", *cur.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Dangling parent reference: treat the node as a root.
				return cur.ID, nil
			}
			return "", err
		}
		if seen[parent.ID] {
			return cur.ID, nil
		}
		seen[parent.ID] = true
		cur = parent
	}
	return cur.ID, nil
}

// collectSubtreeIDs gathers the node and all descendants breadth-first
// over the parent index.
func collectSubtreeIDs(tx *gorm.DB, rootID string) ([]string, error) {
	all := []string{rootID}
	frontier := []string{rootID}
	for len(frontier) > 0 {
		var next []string
		err := tx.Model(&models.CommentModel{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &next).Error
		if err != nil {
			return nil, err
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// buildForest links flat rows into materialized trees. Rows arrive in
// creation order, so children stay ordered and new replies land last.
func buildForest(rows []models.CommentModel) []models.CommentModel {
	byParent := make(map[string][]*models.CommentModel)
	var roots []*models.CommentModel
	index := make(map[string]*models.CommentModel, len(rows))
	for i := range rows {
		index[rows[i].ID] = &rows[i]
	}
	for i := range rows {
		n := &rows[i]
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := index[*n.ParentID]; ok {
			byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
		} else {
			roots = append(roots, n)
		}
	}

	var materialize func(n *models.CommentModel) models.CommentModel
	materialize = func(n *models.CommentModel) models.CommentModel {
		out := *n
		kids := byParent[n.ID]
		out.Children = make([]models.CommentModel, 0, len(kids))
		for _, k := range kids {
			out.Children = append(out.Children, materialize(k))
		}
		return out
	}

	forest := make([]models.CommentModel, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, materialize(r))
	}
	return forest
}

// findNode searches a materialized tree depth-first, children in stored
// order, first match wins.
func findNode(root *models.CommentModel, id string) *models.CommentModel {
	if root.ID == id {
		return root
	}
	for i := range root.Children {
		if found := findNode(&root.Children[i], id); found != nil {
			return found
		}
	}
	return nil
}
