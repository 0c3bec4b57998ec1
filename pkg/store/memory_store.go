package store

import (
	"sort"
	"sync"
	"time"

	"esteria/pkg/domain"
)

// MemoryStore keeps all records in-process. It mirrors GormStore semantics
// (orderings, not-found reporting, level range checks) and backs tests that
// do not need a database file.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	admins   map[string]domain.Admin
	contacts map[int64]domain.ContactMessage
	skills   map[int64]domain.Skill
	settings map[string]domain.Setting

	nextAdminID   int64
	nextContactID int64
	nextSkillID   int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]domain.Project),
		admins:   make(map[string]domain.Admin),
		contacts: make(map[int64]domain.ContactMessage),
		skills:   make(map[int64]domain.Skill),
		settings: make(map[string]domain.Setting),
	}
}

// projects

func (m *MemoryStore) ListProjects() ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Project, 0, len(m.projects))
	for _, p := range m.projects {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) GetProject(id string) (domain.Project, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	return p, ok, nil
}

func (m *MemoryStore) CreateProject(p domain.Project) (domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Tags == nil {
		p.Tags = []string{}
	}
	m.projects[p.ID] = p
	return p, nil
}

func (m *MemoryStore) UpdateProject(id string, p domain.Project) (domain.Project, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.projects[id]
	if !ok {
		return domain.Project{}, false, nil
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	now := time.Now().UTC()
	existing.Title = p.Title
	existing.Description = p.Description
	existing.Tags = p.Tags
	existing.Link = p.Link
	existing.Image = p.Image
	existing.UpdatedAt = &now
	m.projects[id] = existing
	return existing, true, nil
}

func (m *MemoryStore) DeleteProject(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, id)
	return nil
}

// admins

func (m *MemoryStore) GetAdminByUsername(username string) (domain.Admin, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.admins[username]
	return a, ok, nil
}

func (m *MemoryStore) CreateAdmin(username, passwordHash string) (domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAdminID++
	a := domain.Admin{ID: m.nextAdminID, Username: username, PasswordHash: passwordHash}
	m.admins[username] = a
	return a, nil
}

// contact messages

func (m *MemoryStore) CreateContact(c domain.ContactMessage) (domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextContactID++
	c.ID = m.nextContactID
	c.Read = 0
	m.contacts[c.ID] = c
	return c, nil
}

func (m *MemoryStore) ListContacts() ([]domain.ContactMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ContactMessage, 0, len(m.contacts))
	for _, c := range m.contacts {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) GetContact(id int64) (domain.ContactMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contacts[id]
	return c, ok, nil
}

func (m *MemoryStore) MarkContactRead(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok {
		return nil
	}
	c.Read = 1
	m.contacts[id] = c
	return nil
}

func (m *MemoryStore) DeleteContact(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contacts, id)
	return nil
}

func (m *MemoryStore) UnreadContactCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, c := range m.contacts {
		if c.Read == 0 {
			count++
		}
	}
	return count, nil
}

// skills

func (m *MemoryStore) ListSkills() ([]domain.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].SortOrder != res[j].SortOrder {
			return res[i].SortOrder < res[j].SortOrder
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) GetSkill(id int64) (domain.Skill, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.skills[id]
	return s, ok, nil
}

func (m *MemoryStore) CreateSkill(s domain.Skill) (domain.Skill, error) {
	if s.Level < 0 || s.Level > 100 {
		return domain.Skill{}, ErrLevelOutOfRange
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSkillID++
	s.ID = m.nextSkillID
	m.skills[s.ID] = s
	return s, nil
}

func (m *MemoryStore) UpdateSkill(id int64, s domain.Skill) (domain.Skill, bool, error) {
	if s.Level < 0 || s.Level > 100 {
		return domain.Skill{}, false, ErrLevelOutOfRange
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.skills[id]
	if !ok {
		return domain.Skill{}, false, nil
	}
	now := time.Now().UTC()
	existing.Name = s.Name
	existing.Level = s.Level
	existing.Color = s.Color
	existing.SortOrder = s.SortOrder
	existing.UpdatedAt = &now
	m.skills[id] = existing
	return existing, true, nil
}

func (m *MemoryStore) DeleteSkill(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.skills, id)
	return nil
}

// settings

func (m *MemoryStore) GetSetting(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[key]
	return s.Value, ok, nil
}

func (m *MemoryStore) SetSetting(key, value string) (domain.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	m.settings[key] = s
	return s, nil
}
