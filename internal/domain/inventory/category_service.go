// internal/domain/inventory/category_service.go
package inventory

import (
	"errors"
	"fmt"

	"github.com/your-org/church-inventory-backend/internal/config"
	"gorm.io/gorm"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
}

// CategoryWithItemCount represents a category with its item count
type CategoryWithItemCount struct {
	Category
	ItemCount int64 `json:"item_count"`
}

// CategoryTree represents hierarchical category structure
type CategoryTree struct {
	Category
	Children []CategoryTree `json:"children,omitempty"`
}

// GetCategories retrieves all categories ordered by name
func (s *CategoryService) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Model(&Category{}).Preload("Parent").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoryTree retrieves categories in hierarchical tree structure
func (s *CategoryService) GetCategoryTree() ([]CategoryTree, error) {
	categories, err := s.GetCategories()
	if err != nil {
		return nil, err
	}

	// Index children by parent, then build each subtree depth-first.
	// Appending value copies into map entries while still iterating
	// would snapshot nodes before their descendants are attached.
	childrenByParent := make(map[uint][]Category)
	var roots []Category
	for _, cat := range categories {
		if cat.ParentID == nil {
			roots = append(roots, cat)
		} else {
			childrenByParent[*cat.ParentID] = append(childrenByParent[*cat.ParentID], cat)
		}
	}

	var build func(cat Category) CategoryTree
	build = func(cat Category) CategoryTree {
		node := CategoryTree{
			Category: cat,
			Children: []CategoryTree{},
		}
		for _, child := range childrenByParent[cat.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	tree := make([]CategoryTree, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, build(root))
	}

	return tree, nil
}

// GetCategoriesWithItemCount retrieves categories with item counts
func (s *CategoryService) GetCategoriesWithItemCount() ([]CategoryWithItemCount, error) {
	categories, err := s.GetCategories()
	if err != nil {
		return nil, err
	}

	var result []CategoryWithItemCount
	for _, cat := range categories {
		var itemCount int64
		s.db.Model(&Item{}).Where("category_id = ?", cat.ID).Count(&itemCount)

		result = append(result, CategoryWithItemCount{
			Category:  cat,
			ItemCount: itemCount,
		})
	}

	return result, nil
}

// GetCategory retrieves a single category by ID
func (s *CategoryService) GetCategory(id uint) (*Category, error) {
	var category Category
	result := s.db.
		Preload("Parent").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Where("id = ?", id).
		First(&category)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", result.Error)
	}

	return &category, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	// Validate parent category if specified
	if req.ParentID != nil {
		var parent Category
		if result := s.db.Where("id = ?", *req.ParentID).First(&parent); result.Error != nil {
			return nil, fmt.Errorf("parent category not found")
		}
	}

	// Check for duplicate name under the same parent
	var existing Category
	query := s.db.Where("name = ?", req.Name)
	if req.ParentID != nil {
		query = query.Where("parent_id = ?", *req.ParentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}
	if result := query.First(&existing); result.Error == nil {
		return nil, fmt.Errorf("category '%s' already exists", req.Name)
	}

	category := Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.db.Preload("Parent").First(&category, category.ID)
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *CategoryService) UpdateCategory(id uint, req *CategoryUpdateRequest) (*Category, error) {
	var category Category
	result := s.db.Where("id = ?", id).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to find category: %w", result.Error)
	}

	// Validate parent category if being updated
	if req.ParentID != nil {
		// Prevent circular references
		if *req.ParentID == id {
			return nil, fmt.Errorf("category cannot be its own parent")
		}

		var parent Category
		if result := s.db.Where("id = ?", *req.ParentID).First(&parent); result.Error != nil {
			return nil, fmt.Errorf("parent category not found")
		}

		if s.isCircularReference(id, *req.ParentID) {
			return nil, fmt.Errorf("circular reference detected")
		}
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ParentID != nil {
		updates["parent_id"] = *req.ParentID
	}

	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.db.Preload("Parent").First(&category, category.ID)
	return &category, nil
}

// DeleteCategory deletes a category. Items that reference it keep
// existing with the category cleared; deletion is blocked while
// subcategories exist.
func (s *CategoryService) DeleteCategory(id uint) error {
	var childCount int64
	s.db.Model(&Category{}).Where("parent_id = ?", id).Count(&childCount)
	if childCount > 0 {
		return fmt.Errorf("cannot delete category with subcategories")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&Item{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear item references: %w", err)
	}

	result := tx.Where("id = ?", id).Delete(&Category{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("category not found")
	}

	tx.Commit()
	return nil
}

// isCircularReference checks if making parentID the parent of categoryID would create a circular reference
func (s *CategoryService) isCircularReference(categoryID, parentID uint) bool {
	ancestors := s.getAncestors(parentID)
	for _, ancestor := range ancestors {
		if ancestor == categoryID {
			return true
		}
	}
	return false
}

// getAncestors returns all ancestor IDs of a category
func (s *CategoryService) getAncestors(categoryID uint) []uint {
	var ancestors []uint
	currentID := categoryID

	for {
		var category Category
		result := s.db.Select("parent_id").Where("id = ?", currentID).First(&category)
		if result.Error != nil || category.ParentID == nil {
			break
		}

		ancestors = append(ancestors, *category.ParentID)
		currentID = *category.ParentID
	}

	return ancestors
}
