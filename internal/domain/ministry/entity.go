// internal/domain/ministry/entity.go
package ministry

import (
	"time"

	"github.com/your-org/church-inventory-backend/internal/domain/user"
)

// MinistryArea represents an organizational unit that owns inventory
type MinistryArea struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:100" json:"location"`
	LeaderID    *uint     `gorm:"index" json:"leader_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Leader *user.User `gorm:"foreignKey:LeaderID;constraint:OnDelete:SET NULL" json:"leader,omitempty"`
}

// TableName overrides the table name for MinistryArea
func (MinistryArea) TableName() string {
	return "ministry_areas"
}
