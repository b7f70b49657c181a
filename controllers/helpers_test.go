package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Chirp/config"
	"Chirp/models"
	"Chirp/security"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Status   int               `json:"status"`
	Response json.RawMessage   `json:"response"`
	Error    string            `json:"error"`
	Errors   map[string]string `json:"errors"`
}

type testServer struct {
	*Server
	logs *test.Hook
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	security.Cost = bcrypt.MinCost

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	db, err := OpenDatabase("sqlite://:memory:", logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	cfg := config.Default()
	cfg.RateLimit.Burst = 10_000
	cfg.RateLimit.LoginBurst = 10_000

	opts = append([]Option{WithLogger(logger)}, opts...)
	return &testServer{Server: NewServer(db, cfg, opts...), logs: hook}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Response, out), string(env.Response))
}

func (s *testServer) register(t *testing.T, username string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session SessionDTO
	decodeResponse(t, w, &session)
	require.NotEmpty(t, session.Token)
	return session.Token
}

// signup registers username and returns a live session token.
func (s *testServer) signup(t *testing.T, username string) string {
	t.Helper()
	s.register(t, username)
	return s.login(t, username)
}

func (s *testServer) post(t *testing.T, token, body string) PostDTO {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{"body": body})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var dto PostDTO
	decodeResponse(t, w, &dto)
	return dto
}

func (s *testServer) page(t *testing.T, path, token string) PostPageDTO {
	t.Helper()
	w := s.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dto PostPageDTO
	decodeResponse(t, w, &dto)
	return dto
}

func postBodies(page PostPageDTO) []string {
	out := make([]string, len(page.Posts))
	for i, p := range page.Posts {
		out[i] = p.Body
	}
	return out
}
