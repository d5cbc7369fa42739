package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/atinyakov/MemberAuth/internal/credential"
	"github.com/atinyakov/MemberAuth/internal/repository"
	"github.com/atinyakov/MemberAuth/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, static *StaticHandler) *httptest.Server {
	t.Helper()
	creds, err := credential.New(credential.MinCost)
	require.NoError(t, err)
	svc := service.NewAuthService(repository.NewMemoryAuthRepository(), creds, zap.NewNop())
	srv := httptest.NewServer(NewRouter(&AuthHandler{AuthService: svc}, static, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (int, string) {
	t.Helper()
	res, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(data)
}

func TestRouter_SignupAndLogin(t *testing.T) {
	srv := newTestServer(t, nil)

	code, _ := postJSON(t, srv.URL+"/api/signup", `{"inputEmail":"u1@x.com","inputPassword":"p@ss1"}`)
	assert.Equal(t, http.StatusOK, code)

	code, _ = postJSON(t, srv.URL+"/signup", `{"inputEmail":"u1@x.com","inputPassword":"other"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = postJSON(t, srv.URL+"/login", `{"email":"u1@x.com","password":"p@ss1"}`)
	assert.Equal(t, http.StatusOK, code)

	wrongCode, wrongBody := postJSON(t, srv.URL+"/api/login", `{"email":"u1@x.com","password":"p@ss2"}`)
	missingCode, missingBody := postJSON(t, srv.URL+"/api/login", `{"email":"nope@x.com","password":"p@ss2"}`)
	assert.Equal(t, http.StatusUnauthorized, wrongCode)
	assert.Equal(t, wrongCode, missingCode)
	assert.Equal(t, wrongBody, missingBody)
}

func TestRouter_RejectsNonJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	res, err := http.Post(srv.URL+"/api/login", "text/plain", bytes.NewBufferString("email=a"))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
}

func TestRouter_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>members</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	srv := newTestServer(t, &StaticHandler{Dir: dir})

	res, err := http.Get(srv.URL + "/home")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "members")

	res, err = http.Get(srv.URL + "/app.js")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRouter_NoStatic(t *testing.T) {
	srv := newTestServer(t, nil)

	res, err := http.Get(srv.URL + "/home")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
