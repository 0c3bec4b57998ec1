package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. Column names are pinned to the portfolio
// database schema, so an existing portfolio.db keeps working across restarts.
type ProjectModel struct {
	ID          string         `gorm:"column:id;primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description;not null"`
	Tags        datatypes.JSON `gorm:"column:tags"`
	Link        string         `gorm:"column:link"`
	Image       string         `gorm:"column:image"`
	CreatedAt   time.Time      `gorm:"column:createdAt;not null;autoCreateTime:false"`
	UpdatedAt   *time.Time     `gorm:"column:updatedAt;autoUpdateTime:false"`
}

func (ProjectModel) TableName() string { return "projects" }

type AdminModel struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Username string `gorm:"column:username;uniqueIndex;not null"`
	Password string `gorm:"column:password;not null"`
}

func (AdminModel) TableName() string { return "admins" }

type ContactModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string    `gorm:"column:name;not null"`
	Email         string    `gorm:"column:email;not null"`
	ContactMethod string    `gorm:"column:contactMethod"`
	Message       string    `gorm:"column:message;not null"`
	CreatedAt     time.Time `gorm:"column:createdAt;not null;autoCreateTime:false"`
	Read          int       `gorm:"column:read;not null;default:0"`
}

func (ContactModel) TableName() string { return "contacts" }

type SkillModel struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string     `gorm:"column:name;not null"`
	Level     int        `gorm:"column:level;not null;check:level >= 0 AND level <= 100"`
	Color     string     `gorm:"column:color;not null"`
	SortOrder int        `gorm:"column:sortOrder;not null;default:0"`
	CreatedAt time.Time  `gorm:"column:createdAt;not null;autoCreateTime:false"`
	UpdatedAt *time.Time `gorm:"column:updatedAt;autoUpdateTime:false"`
}

func (SkillModel) TableName() string { return "skills" }

type SettingModel struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null;autoUpdateTime:false"`
}

func (SettingModel) TableName() string { return "settings" }
