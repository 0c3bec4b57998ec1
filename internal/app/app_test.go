package app

import (
	"errors"
	"testing"

	"esteria/pkg/auth"
	"esteria/pkg/store"
)

func newTestApp(t *testing.T, bootstrap bool) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	a, err := New(Config{
		Store:          mem,
		Sessions:       store.NewJWTSessionStore("test-secret", 0),
		BootstrapLogin: bootstrap,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func TestLoginBootstrapCredentials(t *testing.T) {
	a, _ := newTestApp(t, true)

	identity, token, err := a.Login("root", "root")
	if err != nil {
		t.Fatalf("bootstrap login: %v", err)
	}
	if identity.Username != "root" {
		t.Fatalf("expected root identity, got %q", identity.Username)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}

	verified, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if verified.Username != "root" {
		t.Fatalf("expected root from token, got %q", verified.Username)
	}
}

func TestLoginBootstrapSelfHealsMissingAdmin(t *testing.T) {
	a, mem := newTestApp(t, true)

	// No admin row exists yet; bootstrap login must create exactly one.
	if _, _, err := a.Login("root", "root"); err != nil {
		t.Fatalf("first bootstrap login: %v", err)
	}
	admin, ok, err := mem.GetAdminByUsername("root")
	if err != nil || !ok {
		t.Fatalf("root admin not created: ok=%v err=%v", ok, err)
	}
	firstID := admin.ID

	// A second bootstrap login reuses the existing row.
	if _, _, err := a.Login("root", "root"); err != nil {
		t.Fatalf("second bootstrap login: %v", err)
	}
	admin, _, err = mem.GetAdminByUsername("root")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if admin.ID != firstID {
		t.Fatalf("bootstrap login duplicated the root row: %d != %d", admin.ID, firstID)
	}
}

func TestLoginBootstrapDisabled(t *testing.T) {
	a, _ := newTestApp(t, false)

	if _, _, err := a.Login("root", "root"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials with bootstrap disabled, got %v", err)
	}
}

func TestLoginStoredAdmin(t *testing.T) {
	a, mem := newTestApp(t, false)

	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := mem.CreateAdmin("alice", hash); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	identity, token, err := a.Login("alice", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.Username != "alice" || token == "" {
		t.Fatalf("unexpected login result: %+v token=%q", identity, token)
	}

	if _, _, err := a.Login("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, _, err := a.Login("nobody", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	a, _ := newTestApp(t, false)

	if _, err := a.VerifyToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestCreateProjectGeneratesIDAndTimestamps(t *testing.T) {
	a, _ := newTestApp(t, false)

	created, err := a.CreateProject(ProjectInput{Title: "X", Description: "Y"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated project id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
	if created.UpdatedAt != nil {
		t.Fatalf("fresh project must not carry updatedAt")
	}
	if created.Tags == nil {
		t.Fatalf("expected non-nil tags")
	}

	other, err := a.CreateProject(ProjectInput{Title: "Z", Description: "W"})
	if err != nil {
		t.Fatalf("create second project: %v", err)
	}
	if other.ID == created.ID {
		t.Fatalf("project ids must be unique")
	}
}

func TestUpdateProjectMissing(t *testing.T) {
	a, _ := newTestApp(t, false)

	if _, err := a.UpdateProject("missing", ProjectInput{Title: "t"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected project not found, got %v", err)
	}
	if err := a.DeleteProject("missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected project not found on delete, got %v", err)
	}
}

func TestSubmitContactValidation(t *testing.T) {
	a, _ := newTestApp(t, false)

	cases := []ContactInput{
		{Email: "a@example.com", Message: "hi"},
		{Name: "a", Message: "hi"},
		{Name: "a", Email: "a@example.com"},
		{Name: "  ", Email: "a@example.com", Message: "hi"},
	}
	for _, in := range cases {
		if _, err := a.SubmitContact(in); !errors.Is(err, ErrContactFieldsRequired) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}

	msg, err := a.SubmitContact(ContactInput{Name: "a", Email: "a@example.com", Message: "hi"})
	if err != nil {
		t.Fatalf("submit contact: %v", err)
	}
	if msg.ID == 0 || msg.Read != 0 {
		t.Fatalf("unexpected stored message: %+v", msg)
	}
}

func TestCreateSkillDefaultsColor(t *testing.T) {
	a, _ := newTestApp(t, false)

	skill, err := a.CreateSkill(SkillInput{Name: "Go", Level: 80})
	if err != nil {
		t.Fatalf("create skill: %v", err)
	}
	if skill.Color != defaultSkillColor {
		t.Fatalf("expected default color, got %q", skill.Color)
	}

	if _, err := a.CreateSkill(SkillInput{Name: "Bad", Level: 200}); !errors.Is(err, store.ErrLevelOutOfRange) {
		t.Fatalf("expected level rejection, got %v", err)
	}
}

func TestUpdateAndDeleteSkillMissing(t *testing.T) {
	a, _ := newTestApp(t, false)

	if _, err := a.UpdateSkill(999, SkillInput{Name: "x", Level: 10}); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected skill not found, got %v", err)
	}
	if err := a.DeleteSkill(999); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected skill not found on delete, got %v", err)
	}
}

func TestGetSettingMissingIsEmpty(t *testing.T) {
	a, _ := newTestApp(t, false)

	value, err := a.GetSetting("nope")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty value for unset key, got %q", value)
	}
}

func TestContactInfoFallbacksAndPartialUpdate(t *testing.T) {
	a, _ := newTestApp(t, false)

	info, err := a.ContactInfo()
	if err != nil {
		t.Fatalf("contact info: %v", err)
	}
	if info.Email == "" || info.Telegram == "" || info.GitHub == "" || info.LinkedIn == "" {
		t.Fatalf("expected fallbacks for every field, got %+v", info)
	}

	email := "new@example.com"
	updated, err := a.UpdateContactInfo(ContactInfoInput{Email: &email})
	if err != nil {
		t.Fatalf("update contact info: %v", err)
	}
	if len(updated) != 1 || updated["email"] != email {
		t.Fatalf("expected only email updated, got %v", updated)
	}

	info, err = a.ContactInfo()
	if err != nil {
		t.Fatalf("contact info: %v", err)
	}
	if info.Email != email {
		t.Fatalf("update not visible: %q", info.Email)
	}
	if info.Telegram != "@virtssy" {
		t.Fatalf("untouched field changed: %q", info.Telegram)
	}
}
