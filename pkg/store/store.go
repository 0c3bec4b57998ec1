package store

import "esteria/pkg/domain"

// Store defines persistence operations for projects, admins, contact
// messages, skills, and settings. Lookups report not-found through the
// boolean result instead of an error.
type Store interface {
	// projects
	ListProjects() ([]domain.Project, error)
	GetProject(id string) (domain.Project, bool, error)
	CreateProject(p domain.Project) (domain.Project, error)
	UpdateProject(id string, p domain.Project) (domain.Project, bool, error)
	DeleteProject(id string) error

	// admins
	GetAdminByUsername(username string) (domain.Admin, bool, error)
	CreateAdmin(username, passwordHash string) (domain.Admin, error)

	// contact messages
	CreateContact(c domain.ContactMessage) (domain.ContactMessage, error)
	ListContacts() ([]domain.ContactMessage, error)
	GetContact(id int64) (domain.ContactMessage, bool, error)
	MarkContactRead(id int64) error
	DeleteContact(id int64) error
	UnreadContactCount() (int, error)

	// skills
	ListSkills() ([]domain.Skill, error)
	GetSkill(id int64) (domain.Skill, bool, error)
	CreateSkill(s domain.Skill) (domain.Skill, error)
	UpdateSkill(id int64, s domain.Skill) (domain.Skill, bool, error)
	DeleteSkill(id int64) error

	// settings
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) (domain.Setting, error)
}

// SessionStore issues and validates session tokens.
type SessionStore interface {
	NewSession(username string) (string, error)
	UsernameFromToken(token string) (string, error)
}
