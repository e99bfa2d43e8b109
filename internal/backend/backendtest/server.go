// Package backendtest runs an in-process stand-in for the user-management
// backend, speaking the same REST surface and response envelope. Tests point
// the console's client at it instead of mocking individual calls.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/umsys/user-management-console/internal"
)

type User struct {
	ID          string           `gorm:"primaryKey" json:"id"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Username    string           `json:"username"`
	Password    string           `json:"-"`
	Email       string           `json:"email"`
	Status      string           `json:"status"`
	Permissions []UserPermission `gorm:"foreignKey:UserID" json:"user_permissions"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type Permission struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type UserPermission struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	UserID       string     `json:"userId"`
	PermissionID string     `json:"permissionId"`
	Permission   Permission `json:"permission"`
}

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

type Server struct {
	*httptest.Server
	DB *gorm.DB
}

func Start() (*Server, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&User{}, &Permission{}, &UserPermission{}); err != nil {
		return nil, err
	}

	s := &Server{DB: db}
	s.Server = httptest.NewServer(s.router())
	return s, nil
}

// Config returns a backend configuration pointing at this server.
func (s *Server) Config() internal.BackendConfig {
	u, _ := url.Parse(s.URL)
	port, _ := strconv.Atoi(u.Port())
	return internal.BackendConfig{
		Protocol: u.Scheme,
		Host:     u.Hostname(),
		Port:     port,
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/users", s.listUsers)
	r.Get("/users/", s.listUsers)
	r.Post("/users", s.createUser)
	r.Get("/users/{id}", s.getUser)
	r.Put("/users/{id}", s.updateUser)
	r.Delete("/users/{id}", s.deleteUser)

	r.Get("/permissions", s.listPermissions)
	r.Get("/permissions/", s.listPermissions)
	r.Post("/user-permission", s.assignPermission)
	r.Delete("/user-permission/{userId}", s.unassignPermission)

	return r
}

var sortColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"username":  "username",
	"email":     "email",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}

	column, ok := sortColumns[r.URL.Query().Get("sortKey")]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if r.URL.Query().Get("sortOrder") == "ASC" {
		direction = "ASC"
	}

	var count int64
	if err := s.DB.Model(&User{}).Count(&count).Error; err != nil {
		writeEnvelope(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	var rows []User
	err := s.DB.Preload("Permissions.Permission").
		Order(column + " " + direction).
		Limit(limit).
		Offset(page * limit).
		Find(&rows).Error
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	writeEnvelope(w, http.StatusOK, "ok", map[string]any{
		"rows":  rows,
		"count": count,
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	var u User
	err := s.DB.Preload("Permissions.Permission").
		First(&u, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		writeEnvelope(w, http.StatusNotFound, "user not found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", u)
}

type createUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeEnvelope(w, http.StatusBadRequest, "missing required fields", nil)
		return
	}

	now := time.Now().UTC()
	u := User{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.DB.Create(&u).Error; err != nil {
		writeEnvelope(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	writeEnvelope(w, http.StatusCreated, "created", u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var existing User
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		writeEnvelope(w, http.StatusNotFound, "user not found", nil)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Email = req.Email
	existing.Status = req.Status
	existing.UpdatedAt = time.Now().UTC()
	if err := s.DB.Save(&existing).Error; err != nil {
		writeEnvelope(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "updated", existing)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.DB.Where("user_id = ?", id).Delete(&UserPermission{})
	s.DB.Delete(&User{}, "id = ?", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPermissions(w http.ResponseWriter, r *http.Request) {
	var permissions []Permission
	if err := s.DB.Order("code ASC").Find(&permissions).Error; err != nil {
		writeEnvelope(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "ok", permissions)
}

type assignRequest struct {
	UserID       string `json:"userId"`
	PermissionID string `json:"permissionId"`
}

func (s *Server) assignPermission(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	var p Permission
	if err := s.DB.First(&p, "id = ?", req.PermissionID).Error; err != nil {
		writeEnvelope(w, http.StatusNotFound, "permission not found", nil)
		return
	}

	edge := UserPermission{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		PermissionID: req.PermissionID,
		Permission:   p,
	}
	if err := s.DB.Create(&edge).Error; err != nil {
		writeEnvelope(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	writeEnvelope(w, http.StatusCreated, "assigned", edge)
}

type unassignRequest struct {
	PermissionID string `json:"permissionId"`
}

func (s *Server) unassignPermission(w http.ResponseWriter, r *http.Request) {
	var req unassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	// deleting an absent edge is a no-op, not an error
	s.DB.Where("user_id = ? AND permission_id = ?", chi.URLParam(r, "userId"), req.PermissionID).
		Delete(&UserPermission{})
	w.WriteHeader(http.StatusNoContent)
}

// ----------------- SEED HELPERS -----------------

func (s *Server) SeedPermission(code, description string) Permission {
	p := Permission{ID: uuid.NewString(), Code: code, Description: description}
	s.DB.Create(&p)
	return p
}

func (s *Server) SeedUser(firstName, lastName, username, email, status string, createdAt time.Time) User {
	u := User{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Password:  "seeded-password",
		Email:     email,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	s.DB.Create(&u)
	return u
}

func (s *Server) SeedEdge(userID string, p Permission) UserPermission {
	edge := UserPermission{
		ID:           uuid.NewString(),
		UserID:       userID,
		PermissionID: p.ID,
		Permission:   p,
	}
	s.DB.Create(&edge)
	return edge
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}
