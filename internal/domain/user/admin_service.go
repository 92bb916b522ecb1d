// internal/domain/user/admin_service.go
package user

import (
	"fmt"

	"github.com/your-org/church-inventory-backend/internal/config"
	"gorm.io/gorm"
)

// AdminService handles administrative user management
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// ListUsersRequest represents user listing filters
type ListUsersRequest struct {
	Role     string `form:"role"`
	IsActive *bool  `form:"is_active"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// ListUsersResponse represents a paginated user listing
type ListUsersResponse struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// UpdateRoleRequest represents a role change
type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

// ListUsers retrieves users with optional filtering and pagination
func (s *AdminService) ListUsers(req *ListUsersRequest) (*ListUsersResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&User{})

	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []User
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	for i := range users {
		users[i].Password = ""
	}

	return &ListUsersResponse{
		Users: users,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// UpdateUserRole changes a user's role
func (s *AdminService) UpdateUserRole(userID uint, req *UpdateRoleRequest) (*User, error) {
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}

	var user User
	if result := s.db.Where("id = ?", userID).First(&user); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	if err := s.db.Model(&user).Update("role", req.Role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user.Password = ""
	return &user, nil
}

// SetUserActive activates or deactivates an account
func (s *AdminService) SetUserActive(userID uint, active bool) (*User, error) {
	var user User
	if result := s.db.Where("id = ?", userID).First(&user); result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	if err := s.db.Model(&user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	user.Password = ""
	return &user, nil
}
