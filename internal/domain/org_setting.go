package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AIVendorNone   = "none"
	AIVendorOpenAI = "openai"
)

// OrganizationSetting gates every AI-backed behavior in the engine: an
// absent row or vendor "none" means AI features silently do nothing.
type OrganizationSetting struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"org_id"`

	AIVendor string `gorm:"column:ai_vendor;not null;default:'none'" json:"ai_vendor"`
	AIAPIKey string `gorm:"column:ai_api_key" json:"-"`
	AIModel  string `gorm:"column:ai_model" json:"ai_model"`

	Extra datatypes.JSON `gorm:"type:jsonb;column:extra;not null;default:'{}'" json:"extra,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (OrganizationSetting) TableName() string { return "organization_setting" }

func (s *OrganizationSetting) AIEnabled() bool {
	return s != nil && s.AIVendor != "" && s.AIVendor != AIVendorNone && s.AIAPIKey != ""
}
