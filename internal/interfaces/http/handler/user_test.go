package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	identityapp "github.com/formax/backend/internal/application/identity"
	"github.com/formax/backend/internal/domain/identity"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepository keeps users in a map, enough for handler round trips
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) Update(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepository) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]identity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, int64(len(users)), nil
}

// newUserTestServer mounts the user routes the way the server does
func newUserTestServer(t *testing.T) (*gin.Engine, *fakeUserRepository) {
	t.Helper()

	repo := newFakeUserRepository()
	service := identityapp.NewUserService(repo, nil)
	handler := NewUserHandler(service)

	engine := gin.New()
	engine.PATCH("/api/v1/users/:id", handler.Update)
	return engine, repo
}

func TestUserHandlerUpdateViaPatch(t *testing.T) {
	engine, repo := newUserTestServer(t)

	user, err := identity.NewUser("office@formax.es", "s3cret-pass", "Office", identity.RoleOffice)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), user))

	t.Run("partial update changes only the sent fields", func(t *testing.T) {
		body := `{"display_name": "Back Office"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+user.ID.String(), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		updated, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Back Office", updated.DisplayName)
		assert.Equal(t, identity.RoleOffice, updated.Role, "omitted role stays untouched")
	})

	t.Run("unknown user returns 404", func(t *testing.T) {
		body := `{"display_name": "Nobody"}`
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+uuid.NewString(), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
