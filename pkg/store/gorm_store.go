package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"esteria/pkg/auth"
	"esteria/pkg/domain"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO required
)

// ErrLevelOutOfRange is returned when a skill level falls outside [0, 100].
var ErrLevelOutOfRange = errors.New("skill level must be between 0 and 100")

const (
	// BootstrapUsername is the admin account guaranteed to exist after Init.
	BootstrapUsername = "root"
	// BootstrapPassword is the seeded password for the bootstrap account.
	BootstrapPassword = "root"

	defaultHeroDescription = "I build modern web applications with clean design and a great user experience."
)

var defaultContactSettings = []struct {
	Key   string
	Value string
}{
	{"contactEmail", "contact@esteria.com"},
	{"contactTelegram", "@virtssy"},
	{"contactGitHub", "github.com/yasimmy"},
	{"contactLinkedIn", "linkedin.com/in/esteria"},
}

var defaultSkills = []domain.Skill{
	{Name: "React", Level: 90, Color: "#61DAFB", SortOrder: 0},
	{Name: "Node.js", Level: 85, Color: "#339933", SortOrder: 1},
	{Name: "JavaScript", Level: 95, Color: "#F7DF1E", SortOrder: 2},
	{Name: "TypeScript", Level: 80, Color: "#3178C6", SortOrder: 3},
	{Name: "HTML/CSS", Level: 95, Color: "#E34F26", SortOrder: 4},
	{Name: "MongoDB", Level: 75, Color: "#47A248", SortOrder: 5},
	{Name: "Express", Level: 85, Color: "#000000", SortOrder: 6},
	{Name: "Git", Level: 90, Color: "#F05032", SortOrder: 7},
}

// GormStore implements Store on an embedded SQLite database file.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (or creates) the database file, runs migrations, and
// seeds default rows. SQLite runs in WAL mode with a single pooled
// connection, so writes serialize and are durable before the call returns.
func NewGormStore(path string) (*GormStore, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_time_format=sqlite"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if err := db.Exec("PRAGMA synchronous = NORMAL;").Error; err != nil {
		return nil, fmt.Errorf("set synchronous mode: %w", err)
	}
	// SQLite supports one writer at a time.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&ProjectModel{},
		&AdminModel{},
		&ContactModel{},
		&SkillModel{},
		&SettingModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	s := &GormStore{db: db}
	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return s, nil
}

// seed inserts default rows on first run. Each default is detected by
// existence, not by a version flag, so re-running is harmless.
func (s *GormStore) seed() error {
	if _, ok, err := s.GetSetting("heroDescription"); err != nil {
		return err
	} else if !ok {
		if _, err := s.SetSetting("heroDescription", defaultHeroDescription); err != nil {
			return err
		}
	}

	for _, def := range defaultContactSettings {
		_, ok, err := s.GetSetting(def.Key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := s.SetSetting(def.Key, def.Value); err != nil {
			return err
		}
	}

	var skillCount int64
	if err := s.db.Model(&SkillModel{}).Count(&skillCount).Error; err != nil {
		return err
	}
	if skillCount == 0 {
		now := time.Now().UTC()
		for _, def := range defaultSkills {
			def.CreatedAt = now
			if _, err := s.CreateSkill(def); err != nil {
				return err
			}
		}
	}

	_, ok, err := s.GetAdminByUsername(BootstrapUsername)
	if err != nil {
		return err
	}
	if !ok {
		hash, err := auth.HashPassword(BootstrapPassword)
		if err != nil {
			return err
		}
		if _, err := s.CreateAdmin(BootstrapUsername, hash); err != nil {
			return err
		}
	}
	return nil
}

// projects

// ListProjects returns all projects, newest first.
func (s *GormStore) ListProjects() ([]domain.Project, error) {
	var models []ProjectModel
	if err := s.db.Order("createdAt DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Project, 0, len(models))
	for _, m := range models {
		p, err := projectFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

// GetProject returns a project by ID.
func (s *GormStore) GetProject(id string) (domain.Project, bool, error) {
	var model ProjectModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Project{}, false, nil
		}
		return domain.Project{}, false, err
	}
	p, err := projectFromModel(model)
	if err != nil {
		return domain.Project{}, false, err
	}
	return p, true, nil
}

// CreateProject stores a project and returns the stored row.
func (s *GormStore) CreateProject(p domain.Project) (domain.Project, error) {
	model, err := projectToModel(p)
	if err != nil {
		return domain.Project{}, err
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Project{}, err
	}
	stored, _, err := s.GetProject(model.ID)
	return stored, err
}

// UpdateProject replaces mutable fields and returns the updated row.
func (s *GormStore) UpdateProject(id string, p domain.Project) (domain.Project, bool, error) {
	if _, ok, err := s.GetProject(id); err != nil || !ok {
		return domain.Project{}, false, err
	}
	tags, err := tagsToJSON(p.Tags)
	if err != nil {
		return domain.Project{}, false, err
	}
	updatedAt := time.Now().UTC()
	err = s.db.Model(&ProjectModel{}).Where("id = ?", id).Updates(map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"tags":        tags,
		"link":        p.Link,
		"image":       p.Image,
		"updatedAt":   updatedAt,
	}).Error
	if err != nil {
		return domain.Project{}, false, err
	}
	return s.GetProject(id)
}

// DeleteProject removes a project; deleting a missing row is a no-op.
func (s *GormStore) DeleteProject(id string) error {
	return s.db.Delete(&ProjectModel{}, "id = ?", id).Error
}

// admins

// GetAdminByUsername looks up an admin account.
func (s *GormStore) GetAdminByUsername(username string) (domain.Admin, bool, error) {
	var model AdminModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Admin{}, false, nil
		}
		return domain.Admin{}, false, err
	}
	return domain.Admin{ID: model.ID, Username: model.Username, PasswordHash: model.Password}, true, nil
}

// CreateAdmin stores an admin with the given password hash.
func (s *GormStore) CreateAdmin(username, passwordHash string) (domain.Admin, error) {
	model := AdminModel{Username: username, Password: passwordHash}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Admin{}, err
	}
	return domain.Admin{ID: model.ID, Username: model.Username, PasswordHash: model.Password}, nil
}

// contact messages

// CreateContact stores a message and returns the stored row.
func (s *GormStore) CreateContact(c domain.ContactMessage) (domain.ContactMessage, error) {
	model := ContactModel{
		Name:          c.Name,
		Email:         c.Email,
		ContactMethod: c.ContactMethod,
		Message:       c.Message,
		CreatedAt:     c.CreatedAt,
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.ContactMessage{}, err
	}
	stored, _, err := s.GetContact(model.ID)
	return stored, err
}

// ListContacts returns all messages, newest first.
func (s *GormStore) ListContacts() ([]domain.ContactMessage, error) {
	var models []ContactModel
	if err := s.db.Order("createdAt DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.ContactMessage, 0, len(models))
	for _, m := range models {
		res = append(res, contactFromModel(m))
	}
	return res, nil
}

// GetContact returns a message by ID.
func (s *GormStore) GetContact(id int64) (domain.ContactMessage, bool, error) {
	var model ContactModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ContactMessage{}, false, nil
		}
		return domain.ContactMessage{}, false, err
	}
	return contactFromModel(model), true, nil
}

// MarkContactRead flips the read flag. Marking an already-read or missing
// message is a no-op.
func (s *GormStore) MarkContactRead(id int64) error {
	return s.db.Model(&ContactModel{}).Where("id = ?", id).Update("read", 1).Error
}

// DeleteContact removes a message.
func (s *GormStore) DeleteContact(id int64) error {
	return s.db.Delete(&ContactModel{}, "id = ?", id).Error
}

// UnreadContactCount counts messages with read = 0.
func (s *GormStore) UnreadContactCount() (int, error) {
	var count int64
	if err := s.db.Model(&ContactModel{}).Where("read = ?", 0).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// skills

// ListSkills returns skills in display order.
func (s *GormStore) ListSkills() ([]domain.Skill, error) {
	var models []SkillModel
	if err := s.db.Order("sortOrder ASC, createdAt ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Skill, 0, len(models))
	for _, m := range models {
		res = append(res, skillFromModel(m))
	}
	return res, nil
}

// GetSkill returns a skill by ID.
func (s *GormStore) GetSkill(id int64) (domain.Skill, bool, error) {
	var model SkillModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Skill{}, false, nil
		}
		return domain.Skill{}, false, err
	}
	return skillFromModel(model), true, nil
}

// CreateSkill stores a skill and returns the stored row.
func (s *GormStore) CreateSkill(sk domain.Skill) (domain.Skill, error) {
	if sk.Level < 0 || sk.Level > 100 {
		return domain.Skill{}, ErrLevelOutOfRange
	}
	model := SkillModel{
		Name:      sk.Name,
		Level:     sk.Level,
		Color:     sk.Color,
		SortOrder: sk.SortOrder,
		CreatedAt: sk.CreatedAt,
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Skill{}, err
	}
	stored, _, err := s.GetSkill(model.ID)
	return stored, err
}

// UpdateSkill replaces mutable fields and returns the updated row.
func (s *GormStore) UpdateSkill(id int64, sk domain.Skill) (domain.Skill, bool, error) {
	if sk.Level < 0 || sk.Level > 100 {
		return domain.Skill{}, false, ErrLevelOutOfRange
	}
	if _, ok, err := s.GetSkill(id); err != nil || !ok {
		return domain.Skill{}, false, err
	}
	updatedAt := time.Now().UTC()
	err := s.db.Model(&SkillModel{}).Where("id = ?", id).Updates(map[string]any{
		"name":      sk.Name,
		"level":     sk.Level,
		"color":     sk.Color,
		"sortOrder": sk.SortOrder,
		"updatedAt": updatedAt,
	}).Error
	if err != nil {
		return domain.Skill{}, false, err
	}
	return s.GetSkill(id)
}

// DeleteSkill removes a skill.
func (s *GormStore) DeleteSkill(id int64) error {
	return s.db.Delete(&SkillModel{}, "id = ?", id).Error
}

// settings

// GetSetting returns the value for a key.
func (s *GormStore) GetSetting(key string) (string, bool, error) {
	var model SettingModel
	if err := s.db.First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return model.Value, true, nil
}

// SetSetting upserts a key/value pair. The pre-check read decides between
// insert and update, keeping a single row per key.
func (s *GormStore) SetSetting(key, value string) (domain.Setting, error) {
	if key == "" {
		return domain.Setting{}, errors.New("setting key is required")
	}
	now := time.Now().UTC()
	_, exists, err := s.GetSetting(key)
	if err != nil {
		return domain.Setting{}, err
	}
	if exists {
		err = s.db.Model(&SettingModel{}).Where("key = ?", key).Updates(map[string]any{
			"value":     value,
			"updatedAt": now,
		}).Error
	} else {
		err = s.db.Create(&SettingModel{Key: key, Value: value, UpdatedAt: now}).Error
	}
	if err != nil {
		return domain.Setting{}, err
	}
	return domain.Setting{Key: key, Value: value, UpdatedAt: now}, nil
}

// model conversions

func projectToModel(p domain.Project) (ProjectModel, error) {
	tags, err := tagsToJSON(p.Tags)
	if err != nil {
		return ProjectModel{}, err
	}
	return ProjectModel{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        tags,
		Link:        p.Link,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func projectFromModel(m ProjectModel) (domain.Project, error) {
	tags, err := tagsFromJSON(m.Tags)
	if err != nil {
		return domain.Project{}, err
	}
	return domain.Project{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Tags:        tags,
		Link:        m.Link,
		Image:       m.Image,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func contactFromModel(m ContactModel) domain.ContactMessage {
	return domain.ContactMessage{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		ContactMethod: m.ContactMethod,
		Message:       m.Message,
		CreatedAt:     m.CreatedAt,
		Read:          m.Read,
	}
}

func skillFromModel(m SkillModel) domain.Skill {
	return domain.Skill{
		ID:        m.ID,
		Name:      m.Name,
		Level:     m.Level,
		Color:     m.Color,
		SortOrder: m.SortOrder,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func tagsToJSON(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func tagsFromJSON(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
