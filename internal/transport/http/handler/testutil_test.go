package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personal-apis/internal/core/auth"
	"personal-apis/internal/domain"
	"personal-apis/internal/errs"
	"personal-apis/internal/transport/http/handler"
	"personal-apis/internal/transport/http/router"
	"personal-apis/pkg/utils"
)

func init() { gin.SetMode(gin.TestMode) }

// memUserRepo is the in-memory stand-in for the user store.
type memUserRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{rows: map[uint]domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Username == u.Username || row.Email == u.Email {
			return errs.ErrDuplicate
		}
	}
	r.seq++
	u.ID = r.seq
	u.CreatedAt = time.Now()
	r.rows[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return domain.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, errs.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, errs.ErrNotFound
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// memTaskRepo mirrors the owner scoping of the real repository: a
// foreign id behaves exactly like a missing one.
type memTaskRepo struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{rows: map[uint]domain.Task{}}
}

func (r *memTaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = r.seq
	r.rows[t.ID] = *t
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, ownerID, id uint) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || t.OwnerID != ownerID {
		return domain.Task{}, errs.ErrNotFound
	}
	return t, nil
}

func (r *memTaskRepo) ListByOwner(_ context.Context, ownerID uint) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.Task
	for _, t := range r.rows {
		if t.OwnerID == ownerID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *memTaskRepo) Update(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[t.ID]
	if !ok || cur.OwnerID != t.OwnerID {
		return errs.ErrNotFound
	}
	cur.Title, cur.Description, cur.Done = t.Title, t.Description, t.Done
	r.rows[t.ID] = cur
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, ownerID, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || t.OwnerID != ownerID {
		return errs.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type testAPI struct {
	engine *gin.Engine
	users  *memUserRepo
	tasks  *memTaskRepo
	jwter  *auth.JWTer
}

func newTestAPI(t *testing.T) *testAPI {
	return newTestAPIWith(t, nil)
}

// newTestAPIWith lets a test interpose on the user store while keeping
// direct access to the backing rows.
func newTestAPIWith(t *testing.T, wrap func(domain.UserRepository) domain.UserRepository) *testAPI {
	t.Helper()
	users := newMemUserRepo()
	var store domain.UserRepository = users
	if wrap != nil {
		store = wrap(users)
	}
	tasks := newMemTaskRepo()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "personal-apis", TTL: time.Hour}
	log := zap.NewNop()
	engine := router.NewAPIEngine(log, jwter, router.Handlers{
		Tasks:        handler.NewTaskHandler(tasks, nil, log),
		Registration: handler.NewRegistrationHandler(store, log),
		Login:        handler.NewLoginHandler(store, jwter, log),
	})
	return &testAPI{engine: engine, users: users, tasks: tasks, jwter: jwter}
}

// seedUser creates a user directly in the store. Reuses an existing row
// with the same username instead of failing.
func (a *testAPI) seedUser(t *testing.T, username, password string) domain.User {
	t.Helper()
	if u, err := a.users.GetByUsername(context.Background(), username); err == nil {
		return u
	}
	u := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: utils.HashPassword(password),
	}
	if err := a.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return u
}

func (a *testAPI) token(t *testing.T, userID uint) string {
	t.Helper()
	tok, err := a.jwter.Issue(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

// do performs a request. Empty token means anonymous; body may be nil
// or anything json.Marshal accepts (strings pass through raw).
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = bytes.NewBuffer(nil)
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}
