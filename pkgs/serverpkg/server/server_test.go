package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/WangWilly/xJuxt/pkgs/commonpkg/model"
	"github.com/WangWilly/xJuxt/pkgs/commonpkg/services"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/dirhelper"
	"github.com/WangWilly/xJuxt/pkgs/serverpkg/helpers/mediahelper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

////////////////////////////////////////////////////////////////////////////////

type fakeResolver struct {
	media map[mediahelper.Kind]map[string]string
	err   error
}

func (f *fakeResolver) Resolve(_ context.Context, kind mediahelper.Kind, id string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	encoded, ok := f.media[kind][id]
	return encoded, ok, nil
}

type fakeAccountService struct {
	counts *services.UnreadCounts
	posts  map[string]*model.Post
	data   *services.UserData
	err    error
}

func (f *fakeAccountService) UnreadCounts(_ context.Context, _ uint64) (*services.UnreadCounts, error) {
	return f.counts, f.err
}

func (f *fakeAccountService) Post(_ context.Context, id string) (*model.Post, error) {
	return f.posts[id], f.err
}

func (f *fakeAccountService) ExportUserData(_ context.Context, pid uint64) (*services.UserData, error) {
	if f.err != nil {
		return nil, f.err
	}
	data := *f.data
	data.Pid = pid
	return &data, nil
}

// headerAuthenticator trusts the X-Test-Pid header.
type headerAuthenticator struct{}

func (headerAuthenticator) Authenticate(r *http.Request) (uint64, error) {
	raw := r.Header.Get("X-Test-Pid")
	if raw == "" {
		return 0, errors.New("no pid")
	}
	return strconv.ParseUint(raw, 10, 64)
}

////////////////////////////////////////////////////////////////////////////////

type testEnv struct {
	server   *Server
	resolver *fakeResolver
	accounts *fakeAccountService
	webfiles string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	webfiles := t.TempDir()
	writeFile(t, filepath.Join(webfiles, "web", "css", "juxt.css"), "body{}")
	writeFile(t, filepath.Join(webfiles, "portal", "css", "juxt.css"), "body{color:red}")
	writeFile(t, filepath.Join(webfiles, "web", "js", "juxt.js"), "console.log(1)")
	writeFile(t, filepath.Join(webfiles, "web", "images", "logo.png"), "png")
	writeFile(t, filepath.Join(webfiles, "web", "images", "favicon.ico"), "ico")
	writeFile(t, filepath.Join(webfiles, "web", "fonts", "font.woff"), "woff")
	writeFile(t, filepath.Join(webfiles, "web", "css", "index.html"), "<p>index</p>")

	env := &testEnv{
		resolver: &fakeResolver{media: map[mediahelper.Kind]map[string]string{
			mediahelper.KindIcon:       {"42": "data:image/png;base64,iVBORw0KGgo=", "bad": "***"},
			mediahelper.KindTip:        {"42": "iVBORw0KGgo="},
			mediahelper.KindBanner:     {"42": "iVBORw0KGgo="},
			mediahelper.KindScreenshot: {"p1": "iVBORw0KGgo="},
			mediahelper.KindDrawing:    {"p1": "iVBORw0KGgo="},
		}},
		accounts: &fakeAccountService{
			counts: &services.UnreadCounts{Messages: 5, Notifications: 3},
			posts:  map[string]*model.Post{"p1": {Id: "p1", Pid: 1000, ScreenName: "Inkling"}},
			data: &services.UserData{
				Settings: &model.UserSettings{Pid: 1000, ScreenName: "Inkling", PfpUri: sql.NullString{String: "iVBORw0KGgo=", Valid: true}},
				Content:  &model.UserContent{Pid: 1000},
			},
		},
		webfiles: webfiles,
	}
	env.server = NewServer(Deps{
		MediaResolver:     env.resolver,
		AccountService:    env.accounts,
		Authenticator:     headerAuthenticator{},
		DirectoryResolver: dirhelper.New(dirhelper.Config{Hosts: map[string]string{"portal": "portal"}}),
	}, Options{WebfilesRoot: webfiles})
	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func (e *testEnv) do(t *testing.T, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

////////////////////////////////////////////////////////////////////////////////

func TestServer_Root(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/titles/show", rec.Header().Get("Location"))
}

func TestServer_StaticAssets(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path        string
		contentType string
		body        string
	}{
		{"/css/juxt.css", "text/css", "body{}"},
		{"/js/juxt.js", "application/javascript; charset=utf-8", "console.log(1)"},
		{"/images/logo.png", "image/png", "png"},
		{"/fonts/font.woff", "font/woff", "woff"},
		{"/favicon.ico", "image/x-icon", "ico"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}

	t.Run("tenant directory from host", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/css/juxt.css", nil)
		req.Host = "portal.olv.pretendo.cc"
		rec := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{color:red}", rec.Body.String())
	})

	t.Run("index.html is streamed not redirected", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/css/index.html", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/css", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<p>index</p>", rec.Body.String())
	})

	t.Run("missing file", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/css/missing.css", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("category directory is not a file", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/css/..", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_Media(t *testing.T) {
	env := newTestEnv(t)

	t.Run("found", func(t *testing.T) {
		for _, path := range []string{"/icons/42.png", "/tip/42.png", "/banner/42.png", "/screenshot/p1.png", "/drawing/p1.png"} {
			rec := env.do(t, http.MethodGet, path, nil)

			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"), path)
			assert.Equal(t, pngSignature, rec.Body.Bytes(), path)
		}
	})

	t.Run("not found has empty body", func(t *testing.T) {
		for _, path := range []string{"/icons/7.png", "/tip/7.png", "/banner/7.png", "/screenshot/7.png", "/drawing/7.png"} {
			rec := env.do(t, http.MethodGet, path, nil)

			assert.Equal(t, http.StatusNotFound, rec.Code, path)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"), path)
			assert.Empty(t, rec.Body.Bytes(), path)
		}
	})

	t.Run("path without png suffix", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/icons/42", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	})

	t.Run("undecodable stored image", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/icons/bad.png", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("resolver failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.resolver.err = errors.New("db down")

		rec := env.do(t, http.MethodGet, "/icons/42.png", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	})
}

func TestServer_Notifications(t *testing.T) {
	env := newTestEnv(t)

	t.Run("counts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/notifications.json", map[string]string{"X-Test-Pid": "1000"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message_count":5,"notification_count":3}`, rec.Body.String())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/notifications.json", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.err = errors.New("db down")

		rec := env.do(t, http.MethodGet, "/notifications.json", map[string]string{"X-Test-Pid": "1000"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_OEmbed(t *testing.T) {
	env := newTestEnv(t)
	auth := map[string]string{"X-Test-Pid": "2000"}

	t.Run("known post", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/p1/oembed.json", auth)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, "Inkling", gjson.Get(body, "author_name").String())
		assert.Equal(t, "https://juxt.pretendo.network/users/show?pid=1000", gjson.Get(body, "author_url").String())
	})

	t.Run("unknown post", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/nope/oembed.json", auth)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/p1/oembed.json", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestServer_DownloadUserData(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/downloadUserData.json", map[string]string{"X-Test-Pid": "1000"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="1000_user_data.json"`, rec.Header().Get("Content-Disposition"))

	body := gjson.Parse(rec.Body.String())
	var keys []string
	body.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.ElementsMatch(t, []string{"user_content", "user_settings", "posts"}, keys)
	assert.Equal(t, "Inkling", body.Get("user_settings.screen_name").String())
	assert.Equal(t, "iVBORw0KGgo=", body.Get("user_settings.pfp_uri").String())
	assert.True(t, body.Get("posts").IsArray())
	assert.Empty(t, body.Get("posts").Array())
}

func TestServer_CommonHeaders(t *testing.T) {
	env := newTestEnv(t)

	t.Run("generated request id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(HEADER_REQUEST_ID))
		assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
	})

	t.Run("propagated request id", func(t *testing.T) {
		id := "3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b"
		rec := env.do(t, http.MethodGet, "/healthz", map[string]string{HEADER_REQUEST_ID: id})
		assert.Equal(t, id, rec.Header().Get(HEADER_REQUEST_ID))
	})

	t.Run("malformed request id is replaced", func(t *testing.T) {
		for _, raw := range []string{"abc", strings.Repeat("a", 4096), "x\r\nSet-Cookie: y"} {
			rec := env.do(t, http.MethodGet, "/healthz", map[string]string{HEADER_REQUEST_ID: raw})

			got := rec.Header().Get(HEADER_REQUEST_ID)
			assert.NotEqual(t, raw, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		}
	})

	t.Run("security headers", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/icons/42.png", nil)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})
}
