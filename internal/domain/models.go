// Package domain defines the persistence models for users and generation
// history, and the closed set of generation tools. These types are mapped
// with GORM and form the core data layer of the image generation backend.
package domain

import (
	"time"
)

// User is an account that can authenticate and own history rows.
//
// Fields:
//   - ID: autoincrement primary key.
//   - Username / Email: unique login identifiers.
//   - PasswordHash: bcrypt hash; never serialized.
//   - IsAdmin: grants access to every history row.
//   - CreatedAt: set by GORM on insert.
type User struct {
	ID           uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username"   gorm:"type:varchar(80);not null;uniqueIndex"`
	Email        string    `json:"email"      gorm:"type:varchar(120);not null;uniqueIndex"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(200);not null"`
	IsAdmin      bool      `json:"is_admin"   gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// History records a single generation request and its outcome. Rows are
// append-only: they are created once and only ever removed by id.
//
// Fields:
//   - ID: autoincrement primary key, monotonic.
//   - ToolName: wire name of the tool (see Tool); indexed with CreatedAt.
//   - InputText: normalized description of the request inputs.
//   - InputImage: upload path, a JSON object of role to path, or "Text Input".
//   - OutputText: final prompt, caption, or enhanced text.
//   - OutputImage: public URL of the generated asset.
//   - CreatedAt: server-assigned UTC insert time.
//   - UserID: optional owner; cleared when the user row is removed.
type History struct {
	ID          uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	ToolName    string    `json:"tool_name"    gorm:"type:varchar(100);not null;index:idx_history_tool_created,priority:1"`
	InputText   *string   `json:"input_text"   gorm:"type:text"`
	InputImage  *string   `json:"input_image"  gorm:"type:text"`
	OutputText  *string   `json:"output_text"  gorm:"type:text"`
	OutputImage *string   `json:"output_image" gorm:"type:varchar(300)"`
	CreatedAt   time.Time `json:"created_at"   gorm:"not null;index:idx_history_tool_created,priority:2"`
	UserID      *uint     `json:"user_id"      gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for History.
func (History) TableName() string { return "history" }

// StrPtr returns nil for the empty string and a pointer to s otherwise.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
