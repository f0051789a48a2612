package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "paisatrack/internal/errors"
	"paisatrack/internal/models"
	"paisatrack/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn        func(username, email, password, firstName, lastName string) (*models.User, error)
	getUserByUsernameFn func(username string) (*models.User, error)
	getUserByIDFn       func(id string) (*models.User, error)
	verifyPasswordFn    func(user *models.User, password string) bool
	storeTokenHashFn    func(userID, hash string) error
	clearTokenHashFn    func(userID string) error
}

func (m *mockUserService) CreateUser(username, email, password, firstName, lastName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(username, email, password, firstName, lastName)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.getUserByUsernameFn != nil {
		return m.getUserByUsernameFn(username)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) StoreTokenHash(userID, hash string) error {
	if m.storeTokenHashFn != nil {
		return m.storeTokenHashFn(userID, hash)
	}
	return nil
}

func (m *mockUserService) ClearTokenHash(userID string) error {
	if m.clearTokenHashFn != nil {
		return m.clearTokenHashFn(userID)
	}
	return nil
}

type mockAuditService struct{}

func (m *mockAuditService) Log(_, _, _, _, _ string, _ map[string]interface{}) {}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

const testUserID = "0195d7a2-1111-7000-8000-000000000001"

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/auth/logout", handler.Logout)
	auth.GET("/auth/profile", handler.GetProfile)
	return r
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(username, email, _, _, _ string) (*models.User, error) {
				return &models.User{
					Base:     models.Base{ID: testUserID},
					Username: username,
					Email:    email,
				}, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"username":"ramesh","password":"password123","email":"r@example.com"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"username":"ramesh","password":"short"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate username", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUsername
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"username":"ramesh","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		if code := errorCode(t, rec); code != "DUPLICATE_USERNAME" {
			t.Errorf("error code = %q", code)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token and stores its hash", func(t *testing.T) {
		var storedHash string
		userSvc := &mockUserService{
			getUserByUsernameFn: func(username string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Username: username}, nil
			},
			storeTokenHashFn: func(_, hash string) error {
				storedHash = hash
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"username":"ramesh","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var body struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to parse body: %v", err)
		}
		if body.Token == "" {
			t.Error("expected a token in the response")
		}
		if storedHash == "" {
			t.Error("expected token hash to be stored")
		}
	})

	t.Run("returns 400 on unknown username", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByUsernameFn: func(string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"username":"ghost","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if code := errorCode(t, rec); code != "INVALID_CREDENTIALS" {
			t.Errorf("error code = %q", code)
		}
	})

	t.Run("returns 400 on wrong password", func(t *testing.T) {
		userSvc := &mockUserService{
			verifyPasswordFn: func(*models.User, string) bool { return false },
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"username":"ramesh","password":"wrong"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("returns confirmation message", func(t *testing.T) {
		var clearedFor string
		userSvc := &mockUserService{
			clearTokenHashFn: func(userID string) error {
				clearedFor = userID
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/logout", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Successfully logged out.") {
			t.Errorf("body = %s", rec.Body.String())
		}
		if clearedFor != testUserID {
			t.Errorf("cleared hash for %q, want %q", clearedFor, testUserID)
		}
	})

	t.Run("returns 500 when hash cannot be cleared", func(t *testing.T) {
		userSvc := &mockUserService{
			clearTokenHashFn: func(string) error {
				return apperrors.ErrInternalServer
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/logout", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}

func TestAuthHandler_GetProfile(t *testing.T) {
	userSvc := &mockUserService{
		getUserByIDFn: func(id string) (*models.User, error) {
			return &models.User{Base: models.Base{ID: id}, Username: "ramesh"}, nil
		},
	}
	handler := NewAuthHandler(userSvc, &mockAuditService{})
	r := setupAuthRouter(handler)

	rec := doRequest(r, "GET", "/auth/profile", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ramesh") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
