package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"esteria/internal/app"
	"esteria/internal/ratelimit"
	"esteria/internal/util"
	"esteria/pkg/domain"
	"esteria/pkg/store"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	LoginLimiter   *ratelimit.FixedWindowLimiter // optional
	TrustedProxies *util.TrustedProxies          // optional
}

// Server exposes the portfolio HTTP API.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	loginLimiter   *ratelimit.FixedWindowLimiter
	trustedProxies *util.TrustedProxies
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		loginLimiter:   cfg.LoginLimiter,
		trustedProxies: cfg.TrustedProxies,
	}
	s.routes()
	return s
}

// Router returns the configured handler with middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(
		util.WithCORS(
			util.WithRequestID(
				util.WithRequestLog("api", s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.Handle("/api/auth/verify", s.authenticated(s.handleVerify))

	// projects (GET public, mutations require auth)
	s.mux.HandleFunc("/api/projects", s.handleProjects)
	s.mux.Handle("/api/projects/", s.authenticated(s.handleProjectByID))
	s.mux.Handle("/api/admin/projects", s.authenticated(s.handleAdminProjects))

	// contact messages (submission public, management requires auth)
	s.mux.HandleFunc("/api/contacts", s.handleContacts)
	s.mux.Handle("/api/contacts/unread-count", s.authenticated(s.handleUnreadCount))
	s.mux.Handle("/api/contacts/", s.authenticated(s.handleContactByID))

	// skills (GET public, mutations require auth)
	s.mux.HandleFunc("/api/skills", s.handleSkills)
	s.mux.Handle("/api/skills/", s.authenticated(s.handleSkillByID))
	s.mux.Handle("/api/admin/skills", s.authenticated(s.handleAdminSkills))

	// settings & contact info
	s.mux.HandleFunc("/api/settings/", s.handleSettingByKey)
	s.mux.HandleFunc("/api/contacts-info", s.handleContactInfo)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers

type authHandler func(http.ResponseWriter, *http.Request, domain.Identity)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := s.authorize(w, r)
		if !ok {
			return
		}
		next(w, r, ident)
	})
}

// authorize resolves the bearer identity. A missing token is unauthorized;
// a malformed or expired token is forbidden. The two map to distinct codes.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return domain.Identity{}, false
	}
	ident, err := s.app.VerifyToken(token)
	if err != nil {
		writeError(w, http.StatusForbidden, "invalid or expired token")
		return domain.Identity{}, false
	}
	return ident, true
}

// auth handlers

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowLogin(w, r) {
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ident, token, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.serverError(w, r, "login", err)
		return
	}
	slog.Info("admin login", "username", ident.Username, "ip", util.ClientIP(r, s.trustedProxies))
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Message: "login successful"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request, ident domain.Identity) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true, User: ident})
}

// project handlers

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listProjects(w, r)
	case http.MethodPost:
		if _, ok := s.authorize(w, r); !ok {
			return
		}
		var in app.ProjectInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		project, err := s.app.CreateProject(in)
		if err != nil {
			s.writeAppError(w, r, "create project", err)
			return
		}
		writeJSON(w, http.StatusCreated, project)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAdminProjects(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.listProjects(w, r)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.app.ListProjects()
	if err != nil {
		s.serverError(w, r, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleProjectByID(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	id := strings.TrimPrefix(r.URL.Path, "/api/projects/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var in app.ProjectInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		project, err := s.app.UpdateProject(id, in)
		if err != nil {
			s.writeAppError(w, r, "update project", err)
			return
		}
		writeJSON(w, http.StatusOK, project)
	case http.MethodDelete:
		if err := s.app.DeleteProject(id); err != nil {
			s.writeAppError(w, r, "delete project", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
	default:
		methodNotAllowed(w)
	}
}

// contact handlers

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in app.ContactInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := s.app.SubmitContact(in)
		if err != nil {
			s.writeAppError(w, r, "submit contact", err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	case http.MethodGet:
		if _, ok := s.authorize(w, r); !ok {
			return
		}
		contacts, err := s.app.ListContacts()
		if err != nil {
			s.serverError(w, r, "list contacts", err)
			return
		}
		writeJSON(w, http.StatusOK, contacts)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	count, err := s.app.UnreadContactCount()
	if err != nil {
		s.serverError(w, r, "unread count", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// /api/contacts/{id} or /api/contacts/{id}/read
func (s *Server) handleContactByID(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	path := strings.TrimPrefix(r.URL.Path, "/api/contacts/")
	parts := strings.SplitN(path, "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	if len(parts) == 2 {
		if parts[1] != "read" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPut {
			methodNotAllowed(w)
			return
		}
		if err := s.app.MarkContactRead(id); err != nil {
			s.serverError(w, r, "mark contact read", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "message marked as read"})
		return
	}

	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.app.DeleteContact(id); err != nil {
		s.serverError(w, r, "delete contact", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}

// skill handlers

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listSkills(w, r)
	case http.MethodPost:
		if _, ok := s.authorize(w, r); !ok {
			return
		}
		var in app.SkillInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		skill, err := s.app.CreateSkill(in)
		if err != nil {
			s.writeAppError(w, r, "create skill", err)
			return
		}
		writeJSON(w, http.StatusCreated, skill)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAdminSkills(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.listSkills(w, r)
}

func (s *Server) listSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.app.ListSkills()
	if err != nil {
		s.serverError(w, r, "list skills", err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

func (s *Server) handleSkillByID(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/skills/")
	if raw == "" || strings.Contains(raw, "/") {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}
	switch r.Method {
	case http.MethodPut:
		var in app.SkillInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		skill, err := s.app.UpdateSkill(id, in)
		if err != nil {
			s.writeAppError(w, r, "update skill", err)
			return
		}
		writeJSON(w, http.StatusOK, skill)
	case http.MethodDelete:
		if err := s.app.DeleteSkill(id); err != nil {
			s.writeAppError(w, r, "delete skill", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "skill deleted"})
	default:
		methodNotAllowed(w)
	}
}

// settings handlers

func (s *Server) handleSettingByKey(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/settings/")
	if key == "" || strings.Contains(key, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		value, err := s.app.GetSetting(key)
		if err != nil {
			s.serverError(w, r, "get setting", err)
			return
		}
		writeJSON(w, http.StatusOK, settingResponse{Key: key, Value: value})
	case http.MethodPut:
		if _, ok := s.authorize(w, r); !ok {
			return
		}
		var req settingUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Value == nil {
			writeError(w, http.StatusBadRequest, app.ErrSettingValueRequired.Error())
			return
		}
		setting, err := s.app.SetSetting(key, *req.Value)
		if err != nil {
			s.writeAppError(w, r, "set setting", err)
			return
		}
		writeJSON(w, http.StatusOK, settingResponse{Key: setting.Key, Value: setting.Value})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleContactInfo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		info, err := s.app.ContactInfo()
		if err != nil {
			s.serverError(w, r, "contact info", err)
			return
		}
		writeJSON(w, http.StatusOK, info)
	case http.MethodPut:
		if _, ok := s.authorize(w, r); !ok {
			return
		}
		var in app.ContactInfoInput
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.app.UpdateContactInfo(in)
		if err != nil {
			s.serverError(w, r, "update contact info", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		methodNotAllowed(w)
	}
}

// helpers

func (s *Server) allowLogin(w http.ResponseWriter, r *http.Request) bool {
	if s.loginLimiter == nil {
		return true
	}
	key := r.URL.Path + "|" + util.ClientIP(r, s.trustedProxies)
	if s.loginLimiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "too many login attempts")
	return false
}

// writeAppError maps expected application errors to client responses and
// everything else to a generic server failure.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, app.ErrProjectNotFound), errors.Is(err, app.ErrSkillNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrContactFieldsRequired),
		errors.Is(err, app.ErrSettingValueRequired),
		errors.Is(err, store.ErrLevelOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.serverError(w, r, op, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	util.LoggerFromContext(r.Context()).Error(op+" failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type verifyResponse struct {
	Valid bool            `json:"valid"`
	User  domain.Identity `json:"user"`
}

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type settingUpdateRequest struct {
	Value *string `json:"value"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
