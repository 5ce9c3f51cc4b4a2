package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/internal/router"
	"github.com/anonto42/campus-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userEnvelope struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
	Created bool        `json:"created"`
}

type profileResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

func TestUpsertUser(t *testing.T) {
	f := newFixture(t)
	body := echo.Map{"uid": "u1", "email": "Ada@Example.com", "displayName": "Ada"}

	rec := do(t, f.e, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[userEnvelope](t, rec)
	assert.True(t, created.Success)
	assert.True(t, created.Created)
	assert.Equal(t, "ada@example.com", created.User.Email)
	assert.Equal(t, models.RoleStudent, created.User.Role)
	assert.Equal(t, 25, created.User.ProfileCompletionPercentage)

	body["displayName"] = "Ada L."
	rec = do(t, f.e, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[userEnvelope](t, rec)
	assert.False(t, updated.Created)
	assert.Equal(t, "Ada L.", updated.User.DisplayName)
	assert.False(t, updated.User.LastLoginAt.Before(created.User.LastLoginAt))

	rec = do(t, f.e, http.MethodPost, "/api/users", echo.Map{"uid": "u2", "email": "not-an-email", "displayName": "Bo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email is not a valid email", errorMessage(t, rec))
}

func TestVerifiedUpsertCannotClaimAnotherEmail(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	require.NoError(t, users.CreateUser(context.Background(), models.NewUser("victim", "vic@example.com", "Victoria", "https://img/v.png", signup)))
	e := router.New(&config.Config{AllowedOrigins: "*"}, router.Dependencies{
		Users:    users,
		Posts:    repositories.NewMemoryPostRepository(),
		Comments: repositories.NewMemoryCommentRepository(),
		Verifier: stubVerifier{},
		Logger:   zap.NewNop(),
	})
	bearer := []string{echo.HeaderAuthorization, "Bearer token-of-u7"}

	rec := do(t, e, http.MethodPost, "/api/users",
		echo.Map{"uid": "victim", "email": "vic@example.com", "displayName": "Mallory", "photoURL": "https://img/m.png"}, bearer...)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	victim, err := users.GetUserByUID(context.Background(), "victim")
	require.NoError(t, err)
	assert.Equal(t, "Victoria", victim.DisplayName)
	assert.Equal(t, "https://img/v.png", victim.PhotoURL)

	rec = do(t, e, http.MethodPost, "/api/users", echo.Map{"uid": "victim", "email": "u7@example.com", "displayName": "Seven"}, bearer...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "u7", decode[userEnvelope](t, rec).User.UID)

	rec = do(t, e, http.MethodPost, "/api/users", echo.Map{"uid": "u7", "email": "u7@example.com", "displayName": "Seven Again"}, bearer...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Seven Again", decode[userEnvelope](t, rec).User.DisplayName)
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.CreateUser(context.Background(), models.NewUser("u1", "ada@example.com", "Ada", "", signup)))

	tests := []struct {
		name  string
		query string
		code  int
	}{
		{"by uid", "?uid=u1", http.StatusOK},
		{"by email", "?email=ADA@example.com", http.StatusOK},
		{"uid and matching email", "?uid=u1&email=ada@example.com", http.StatusOK},
		{"uid and other email", "?uid=u1&email=bob@example.com", http.StatusNotFound},
		{"unknown", "?uid=nobody", http.StatusNotFound},
		{"no parameters", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.e, http.MethodGet, "/api/users"+tt.query, nil)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code == http.StatusOK {
				got := decode[userEnvelope](t, rec)
				assert.True(t, got.Success)
				assert.Equal(t, "u1", got.User.UID)
			}
		})
	}

	rec := do(t, f.e, http.MethodGet, "/api/users", nil)
	assert.Equal(t, "UID or email parameter is required", errorMessage(t, rec))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.CreateUser(context.Background(), models.NewUser("u1", "ada@example.com", "Ada", "", signup)))

	rec := do(t, f.e, http.MethodPut, "/api/profile", echo.Map{
		"uid":         "u1",
		"displayName": "Ada Lovelace",
		"bio":         "Counting engines",
		"institution": "Analytical College",
		"subject":     "Mathematics",
		"location":    "London",
		"dateOfBirth": "1815-12-10",
		"skills":      []string{"maths"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[profileResponse](t, rec)
	assert.Equal(t, "Profile updated successfully", resp.Message)
	assert.Equal(t, "Ada Lovelace", resp.User.DisplayName)
	assert.Equal(t, []string{"maths"}, resp.User.Skills)
	require.NotNil(t, resp.User.DateOfBirth)
	assert.Equal(t, "1815-12-10", resp.User.DateOfBirth.Format(models.DateLayout))
	assert.Equal(t, 88, resp.User.ProfileCompletionPercentage)
	assert.True(t, resp.User.ProfileCompleted)

	rec = do(t, f.e, http.MethodGet, "/api/profile?uid=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "London", decode[models.User](t, rec).Location)
}

func TestUpdateProfileRejects(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.CreateUser(context.Background(), models.NewUser("u1", "ada@example.com", "Ada", "", signup)))

	tests := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"unknown field", `{"uid":"u1","displayName":"Ada","role":"admin"}`, http.StatusBadRequest, `json: unknown field "role"`},
		{"missing display name", `{"uid":"u1"}`, http.StatusBadRequest, "displayName is required"},
		{"bad gender", `{"uid":"u1","displayName":"Ada","gender":"robot"}`, http.StatusBadRequest, "gender is not a valid gender"},
		{"bad theme", `{"uid":"u1","displayName":"Ada","theme":"neon"}`, http.StatusBadRequest, "theme must be one of [light dark auto]"},
		{"bad date", `{"uid":"u1","displayName":"Ada","dateOfBirth":"10/12/1815"}`, http.StatusBadRequest, "dateOfBirth is not a valid dateonly"},
		{"unknown user", `{"uid":"nobody","displayName":"Ada"}`, http.StatusNotFound, "User not found"},
		{"empty body", ``, http.StatusBadRequest, "uid is required; displayName is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.e, http.MethodPut, "/api/profile", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.msg, errorMessage(t, rec))
		})
	}

	u, err := f.users.GetUserByUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.Equal(t, "light", u.Theme)
}

func TestGetProfileRequiresUID(t *testing.T) {
	f := newFixture(t)
	rec := do(t, f.e, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID is required", errorMessage(t, rec))
}

func TestUpdateProfilePhoto(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.users.CreateUser(context.Background(), models.NewUser("u1", "ada@example.com", "Ada", "", signup)))

	rec := do(t, f.e, http.MethodPut, "/api/profile/photo", echo.Map{"uid": "u1", "photoURL": "https://cdn.example.com/ada.png"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Profile photo updated successfully","photoURL":"https://cdn.example.com/ada.png"}`, rec.Body.String())

	rec = do(t, f.e, http.MethodPut, "/api/profile/photo", echo.Map{"uid": "u1", "photoURL": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	body := echo.Map{"name": "Grace", "email": "grace@example.com", "password": "hopper-1906"}

	rec := do(t, f.e, http.MethodPost, "/api/register", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[map[string]string](t, rec)
	assert.Equal(t, "User registered successfully", resp["message"])
	assert.Regexp(t, `^local-[0-9a-f-]{36}$`, resp["uid"])

	u, err := f.users.GetUserByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hopper-1906")))

	rec = do(t, f.e, http.MethodGet, "/api/users?email=grace@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.NotContains(t, rec.Body.String(), u.PasswordHash)

	rec = do(t, f.e, http.MethodPost, "/api/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", errorMessage(t, rec))

	rec = do(t, f.e, http.MethodPost, "/api/register", echo.Map{"name": "G", "email": "g@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name must satisfy min=2; password must satisfy min=8", errorMessage(t, rec))
}
