package http

import (
	"bytes"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var app *fiber.App

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)

	viper.Set("security.jwt_secret", "http-test-secret")
	viper.Set("media.base_url", "/media")

	if err := cache.NewStore(); err != nil {
		panic(err)
	}
	if err := database.Connect(sqlite.Open("file:http_test?mode=memory&cache=shared")); err != nil {
		panic(err)
	}
	sqlDB, err := database.C.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.RunMigration(database.C); err != nil {
		panic(err)
	}

	services.MediaFs = afero.NewMemMapFs()
	app = NewServer().App()

	os.Exit(m.Run())
}

func resetStore(t *testing.T) {
	t.Helper()

	tx := database.C.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range database.AutoMaintainRange {
		require.NoError(t, tx.Delete(model).Error)
	}
	cache.Clear()
	cache.Wait()
}

func request(t *testing.T, method, path string, body any, token string) (*nethttp.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return send(t, req, token)
}

func send(t *testing.T, req *nethttp.Request, token string) (*nethttp.Response, map[string]any) {
	t.Helper()

	if len(token) > 0 {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, jsoniter.Unmarshal(raw, &out))
	}
	return resp, out
}

func signup(t *testing.T, name string) string {
	t.Helper()

	resp, out := request(t, fiber.MethodPost, "/api/auth/signup", fiber.Map{
		"username":  name,
		"email":     name + "@example.com",
		"password":  "secret",
		"password2": "secret",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return out["token"].(string)
}

func createPost(t *testing.T, token, caption string) string {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("caption", caption))
	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/posts", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())

	resp, out := send(t, req, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return out["id"].(string)
}

func TestSignupErrors(t *testing.T) {
	resetStore(t)
	signup(t, "alice")

	resp, out := request(t, fiber.MethodPost, "/api/auth/signup", fiber.Map{
		"username":  "alice",
		"email":     "other@example.com",
		"password":  "secret",
		"password2": "secret",
	}, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, out["error"])

	resp, _ = request(t, fiber.MethodPost, "/api/auth/signup", fiber.Map{
		"username":  "bob",
		"email":     "bob@example.com",
		"password":  "secret",
		"password2": "different",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = request(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"username": "alice",
		"password": "wrong",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	resetStore(t)
	signup(t, "alice")

	resp, out := request(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"username": "alice",
		"password": "secret",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := out["token"].(string)

	resp, out = request(t, fiber.MethodGet, "/api/auth/user", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", out["account"].(map[string]any)["name"])

	resp, _ = request(t, fiber.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = request(t, fiber.MethodGet, "/api/auth/user", nil, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProfilePrivacy(t *testing.T) {
	resetStore(t)
	alice := signup(t, "alice")
	signup(t, "bob")
	postID := createPost(t, alice, "hello")

	for _, path := range []string{
		"/api/profiles",
		"/api/profiles/alice",
		"/api/posts?author=alice",
		"/api/posts/" + postID,
		"/api/posts/" + postID + "/comments",
		"/api/posts/featured",
		"/api/relations/followers?user=alice",
		"/api/relations/following?user=alice",
	} {
		resp, _ := request(t, fiber.MethodGet, path, nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}

	for _, path := range []string{
		"/api/profiles",
		"/api/profiles?username=bob",
		"/api/profiles/bob",
		"/api/posts/" + postID,
		"/api/posts/featured",
	} {
		req := httptest.NewRequest(fiber.MethodGet, path, nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+alice)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.NotContains(t, string(raw), "@example.com", path)
	}

	resp, out := request(t, fiber.MethodGet, "/api/auth/user", nil, alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice@example.com", out["email"])
	_, leaked := out["account"].(map[string]any)["email"]
	assert.False(t, leaked)
}

func TestFollowBlockFlow(t *testing.T) {
	resetStore(t)
	alice := signup(t, "alice")
	bob := signup(t, "bob")

	resp, _ := request(t, fiber.MethodGet, "/api/posts/feed", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = request(t, fiber.MethodPost, "/api/relations/follow", fiber.Map{"user": "alice"}, alice)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out := request(t, fiber.MethodPost, "/api/relations/follow", fiber.Map{"user": "bob"}, alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["following"])

	postID := createPost(t, bob, "hello")

	resp, out = request(t, fiber.MethodGet, "/api/posts/feed", nil, alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, out["count"])
	assert.Equal(t, postID, out["data"].([]any)[0].(map[string]any)["id"])

	resp, out = request(t, fiber.MethodPost, "/api/relations/block/toggle", fiber.Map{"blocked": "alice"}, bob)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["blocked"])

	resp, out = request(t, fiber.MethodGet, "/api/posts/feed", nil, alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, out["count"])

	resp, out = request(t, fiber.MethodGet, "/api/profiles/bob", nil, alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, services.ProfileBlockedByUser, out["visibility"])
	assert.Empty(t, out["posts"])

	resp, out = request(t, fiber.MethodGet, "/api/profiles/alice", nil, bob)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, services.ProfileYouBlockedUser, out["visibility"])

	var follows int64
	require.NoError(t, database.C.Model(&models.Follow{}).Count(&follows).Error)
	assert.EqualValues(t, 0, follows)
}

func TestLikeCommentNotificationFlow(t *testing.T) {
	resetStore(t)
	carol := signup(t, "carol")
	dave := signup(t, "dave")

	postID := createPost(t, dave, "morning")

	resp, out := request(t, fiber.MethodPost, "/api/posts/"+postID+"/like", nil, carol)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["liked"])
	assert.EqualValues(t, 1, out["no_of_likes"])

	resp, _ = request(t, fiber.MethodPost, "/api/posts/"+postID+"/comments", fiber.Map{"body": "   "}, carol)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, out = request(t, fiber.MethodPost, "/api/posts/"+postID+"/comments", fiber.Map{"body": "nice"}, carol)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	commentID := out["id"].(string)

	resp, _ = request(t, fiber.MethodDelete, "/api/comments/"+commentID, nil, dave)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = request(t, fiber.MethodGet, "/api/notifications", nil, dave)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, out["unread"])
	items := out["data"].([]any)
	require.Len(t, items, 2)
	notificationID := int(items[0].(map[string]any)["id"].(float64))

	resp, _ = request(t, fiber.MethodPost, "/api/notifications/"+strconv.Itoa(notificationID)+"/read", nil, carol)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, out = request(t, fiber.MethodPost, "/api/notifications/read-all", nil, dave)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, out["count"])

	resp, _ = request(t, fiber.MethodGet, "/api/posts/00000000-0000-0000-0000-000000000000", nil, carol)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = request(t, fiber.MethodDelete, "/api/posts/"+postID, nil, carol)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = request(t, fiber.MethodDelete, "/api/posts/"+postID, nil, dave)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminAndMetrics(t *testing.T) {
	resetStore(t)
	alice := signup(t, "alice")

	resp, _ := request(t, fiber.MethodPost, "/api/admin/audit/likes", nil, alice)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	require.NoError(t, database.C.Model(&models.Account{}).Where("name = ?", "alice").Update("is_admin", true).Error)

	resp, out := request(t, fiber.MethodPost, "/api/admin/audit/likes", nil, alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, out["repaired"])

	resp, _ = request(t, fiber.MethodGet, "/metrics", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
