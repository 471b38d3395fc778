package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lodgr/internal/data/entity"
	"lodgr/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSessions struct {
	sessions map[string]*entity.Session
	err      error
	lookups  int
}

func (f *fakeSessions) Create(context.Context, *entity.Session) error { return nil }

func (f *fakeSessions) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[token], nil
}

func (f *fakeSessions) Revoke(context.Context, string) error { return nil }

func (f *fakeSessions) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

const goodToken = "3f2b8c1e-7a4d-4e9b-b0c6-5d1e2f3a4b5c"

func TestAuthSession(t *testing.T) {
	userID := uuid.New()
	sessions := &fakeSessions{sessions: map[string]*entity.Session{
		goodToken: {UserID: userID},
	}}

	var gotUser uuid.UUID
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = utils.GetUserIDFromContext(r.Context())
		gotToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthSession(sessions, zap.NewNop())(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + goodToken, http.StatusUnauthorized},
		{"extra parts", "Bearer " + goodToken + " extra", http.StatusUnauthorized},
		{"unknown token", "Bearer " + uuid.NewString(), http.StatusUnauthorized},
		{"valid", "Bearer " + goodToken, http.StatusNoContent},
		{"scheme is case-insensitive", "bearer " + goodToken, http.StatusNoContent},
		{"token is case-insensitive", "Bearer " + strings.ToUpper(goodToken), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotToken = uuid.Nil, ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, goodToken, gotToken)
			}
		})
	}
}

func TestAuthSession_StoreError(t *testing.T) {
	handler := AuthSession(&fakeSessions{err: errors.New("db down")}, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+goodToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthSession_MalformedTokenSkipsStore(t *testing.T) {
	// The store rejects non-UUID input the way Postgres does for a uuid column.
	sessions := &fakeSessions{err: errors.New("ERROR: invalid input syntax for type uuid (SQLSTATE 22P02)")}
	handler := AuthSession(sessions, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next must not run")
		}))

	for _, token := range []string{"abc", "not-a-uuid-at-all", "3f2b8c1e-7a4d-4e9b-b0c6"} {
		t.Run(token, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
	assert.Zero(t, sessions.lookups)
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
