package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"esteria/pkg/auth"
	"esteria/pkg/domain"
	"esteria/pkg/store"
)

// Config wires storage and session dependencies for the core application.
type Config struct {
	Store    store.Store
	Sessions store.SessionStore

	// BootstrapLogin keeps the well-known root/root credential pair working
	// even when the admin row has been tampered with. Intended for demo and
	// first-run setups; disable it once the root password has been rotated.
	BootstrapLogin bool
}

// App is the application core wiring storage, credentials, and sessions.
type App struct {
	store          store.Store
	sessions       store.SessionStore
	bootstrapLogin bool
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	return &App{
		store:          cfg.Store,
		sessions:       cfg.Sessions,
		bootstrapLogin: cfg.BootstrapLogin,
	}, nil
}

// Login verifies credentials and issues a session token. Wrong credentials
// return ErrInvalidCredentials; only unexpected store failures return other
// errors.
func (a *App) Login(username, password string) (domain.Identity, string, error) {
	username = strings.TrimSpace(username)

	if a.bootstrapLogin && username == store.BootstrapUsername && password == store.BootstrapPassword {
		admin, err := a.ensureBootstrapAdmin()
		if err != nil {
			return domain.Identity{}, "", err
		}
		return a.issueSession(admin)
	}

	admin, ok, err := a.store.GetAdminByUsername(username)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("fetch admin: %w", err)
	}
	if !ok || !auth.CheckPassword(password, admin.PasswordHash) {
		return domain.Identity{}, "", ErrInvalidCredentials
	}
	return a.issueSession(admin)
}

// VerifyToken validates a session token and returns the admin identity.
func (a *App) VerifyToken(token string) (domain.Identity, error) {
	username, err := a.sessions.UsernameFromToken(token)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{Username: username}, nil
}

// ensureBootstrapAdmin re-creates the root row if it went missing, so the
// "exactly one root admin" invariant holds after every bootstrap login.
func (a *App) ensureBootstrapAdmin() (domain.Admin, error) {
	admin, ok, err := a.store.GetAdminByUsername(store.BootstrapUsername)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("fetch admin: %w", err)
	}
	if ok {
		return admin, nil
	}
	hash, err := auth.HashPassword(store.BootstrapPassword)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("hash password: %w", err)
	}
	admin, err = a.store.CreateAdmin(store.BootstrapUsername, hash)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

func (a *App) issueSession(admin domain.Admin) (domain.Identity, string, error) {
	token, err := a.sessions.NewSession(admin.Username)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("issue session: %w", err)
	}
	return domain.Identity{ID: admin.ID, Username: admin.Username}, token, nil
}

// projects

// ProjectInput carries the mutable project fields.
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link"`
	Image       string   `json:"image"`
}

// ListProjects returns all projects, newest first.
func (a *App) ListProjects() ([]domain.Project, error) {
	return a.store.ListProjects()
}

// CreateProject stores a new project with a generated ID.
func (a *App) CreateProject(in ProjectInput) (domain.Project, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return a.store.CreateProject(domain.Project{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Tags:        tags,
		Link:        in.Link,
		Image:       in.Image,
		CreatedAt:   time.Now().UTC(),
	})
}

// UpdateProject replaces the mutable fields of an existing project.
func (a *App) UpdateProject(id string, in ProjectInput) (domain.Project, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	updated, ok, err := a.store.UpdateProject(id, domain.Project{
		Title:       in.Title,
		Description: in.Description,
		Tags:        tags,
		Link:        in.Link,
		Image:       in.Image,
	})
	if err != nil {
		return domain.Project{}, err
	}
	if !ok {
		return domain.Project{}, ErrProjectNotFound
	}
	return updated, nil
}

// DeleteProject removes a project; missing projects report ErrProjectNotFound.
func (a *App) DeleteProject(id string) error {
	_, ok, err := a.store.GetProject(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProjectNotFound
	}
	return a.store.DeleteProject(id)
}

// contact messages

// ContactInput carries a contact-form submission.
type ContactInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactMethod string `json:"contactMethod"`
	Message       string `json:"message"`
}

// SubmitContact validates and stores a contact-form message.
func (a *App) SubmitContact(in ContactInput) (domain.ContactMessage, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Message) == "" {
		return domain.ContactMessage{}, ErrContactFieldsRequired
	}
	return a.store.CreateContact(domain.ContactMessage{
		Name:          in.Name,
		Email:         in.Email,
		ContactMethod: in.ContactMethod,
		Message:       in.Message,
		CreatedAt:     time.Now().UTC(),
	})
}

// ListContacts returns all messages, newest first.
func (a *App) ListContacts() ([]domain.ContactMessage, error) {
	return a.store.ListContacts()
}

// UnreadContactCount counts messages not yet marked read.
func (a *App) UnreadContactCount() (int, error) {
	return a.store.UnreadContactCount()
}

// MarkContactRead marks a message as read. The transition is one-way and
// idempotent; marking a missing or already-read message succeeds.
func (a *App) MarkContactRead(id int64) error {
	return a.store.MarkContactRead(id)
}

// DeleteContact removes a message.
func (a *App) DeleteContact(id int64) error {
	return a.store.DeleteContact(id)
}

// skills

// SkillInput carries the mutable skill fields.
type SkillInput struct {
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Color     string `json:"color"`
	SortOrder int    `json:"sortOrder"`
}

const defaultSkillColor = "#667eea"

// ListSkills returns skills in display order.
func (a *App) ListSkills() ([]domain.Skill, error) {
	return a.store.ListSkills()
}

// CreateSkill stores a new skill. The store rejects levels outside [0, 100].
func (a *App) CreateSkill(in SkillInput) (domain.Skill, error) {
	color := in.Color
	if color == "" {
		color = defaultSkillColor
	}
	return a.store.CreateSkill(domain.Skill{
		Name:      in.Name,
		Level:     in.Level,
		Color:     color,
		SortOrder: in.SortOrder,
		CreatedAt: time.Now().UTC(),
	})
}

// UpdateSkill replaces the mutable fields of an existing skill.
func (a *App) UpdateSkill(id int64, in SkillInput) (domain.Skill, error) {
	color := in.Color
	if color == "" {
		color = defaultSkillColor
	}
	updated, ok, err := a.store.UpdateSkill(id, domain.Skill{
		Name:      in.Name,
		Level:     in.Level,
		Color:     color,
		SortOrder: in.SortOrder,
	})
	if err != nil {
		return domain.Skill{}, err
	}
	if !ok {
		return domain.Skill{}, ErrSkillNotFound
	}
	return updated, nil
}

// DeleteSkill removes a skill; missing skills report ErrSkillNotFound.
func (a *App) DeleteSkill(id int64) error {
	_, ok, err := a.store.GetSkill(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSkillNotFound
	}
	return a.store.DeleteSkill(id)
}

// settings

// GetSetting returns the value for a key, empty string when unset.
func (a *App) GetSetting(key string) (string, error) {
	value, _, err := a.store.GetSetting(key)
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting upserts a setting value.
func (a *App) SetSetting(key, value string) (domain.Setting, error) {
	return a.store.SetSetting(key, value)
}

// contact info settings

const (
	settingContactEmail    = "contactEmail"
	settingContactTelegram = "contactTelegram"
	settingContactGitHub   = "contactGitHub"
	settingContactLinkedIn = "contactLinkedIn"
)

// ContactInfoInput carries a partial contact-info update; nil fields are
// left untouched.
type ContactInfoInput struct {
	Email    *string `json:"email"`
	Telegram *string `json:"telegram"`
	GitHub   *string `json:"github"`
	LinkedIn *string `json:"linkedin"`
}

// ContactInfo returns the public contact details, falling back to the seeded
// defaults when a key is unset.
func (a *App) ContactInfo() (domain.ContactInfo, error) {
	info := domain.ContactInfo{}
	fields := []struct {
		key      string
		fallback string
		dst      *string
	}{
		{settingContactEmail, "contact@esteria.com", &info.Email},
		{settingContactTelegram, "@virtssy", &info.Telegram},
		{settingContactGitHub, "github.com/yasimmy", &info.GitHub},
		{settingContactLinkedIn, "linkedin.com/in/esteria", &info.LinkedIn},
	}
	for _, f := range fields {
		value, ok, err := a.store.GetSetting(f.key)
		if err != nil {
			return domain.ContactInfo{}, err
		}
		if !ok || value == "" {
			value = f.fallback
		}
		*f.dst = value
	}
	return info, nil
}

// UpdateContactInfo upserts the provided contact-info fields and returns the
// fields that changed.
func (a *App) UpdateContactInfo(in ContactInfoInput) (map[string]string, error) {
	updated := make(map[string]string)
	fields := []struct {
		name  string
		key   string
		value *string
	}{
		{"email", settingContactEmail, in.Email},
		{"telegram", settingContactTelegram, in.Telegram},
		{"github", settingContactGitHub, in.GitHub},
		{"linkedin", settingContactLinkedIn, in.LinkedIn},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		setting, err := a.store.SetSetting(f.key, *f.value)
		if err != nil {
			return nil, err
		}
		updated[f.name] = setting.Value
	}
	return updated, nil
}
