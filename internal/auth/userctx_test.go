package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lifelevels/journal-backend/internal/users"
)

type fakeEnsurer struct {
	got users.UpsertUser
	id  string
	err error
}

func (f *fakeEnsurer) EnsureUser(_ context.Context, u users.UpsertUser) (string, error) {
	f.got = u
	return f.id, f.err
}

func newUserRouter(ens UserEnsurer, identity *Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if identity != nil {
			SetIdentity(c, identity)
		}
		c.Next()
	})
	r.Use(WithUser(ens))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserDBID(c)+"|"+AuthUID(c))
	})
	return r
}

func TestWithUser(t *testing.T) {
	t.Run("stores the database id", func(t *testing.T) {
		ens := &fakeEnsurer{id: "db-1"}
		r := newUserRouter(ens, &Identity{UID: "fb-1", Email: "a@example.com"})

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "db-1|fb-1", rr.Body.String())
		assert.Equal(t, "a@example.com", ens.got.Email)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		r := newUserRouter(&fakeEnsurer{}, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("database failure", func(t *testing.T) {
		r := newUserRouter(&fakeEnsurer{err: errors.New("db down")}, &Identity{UID: "fb-1"})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "db down")
	})
}
