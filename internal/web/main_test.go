package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/config"
	"github.com/studyhive/studyhive/internal/db/models"
)

// newTestService assembles the full web service on an in-memory database.
func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupLike{},
		&models.GroupRating{},
		&models.VideoSession{},
		&models.ForumPost{},
		&models.ForumAnswer{},
	)
	require.NoError(t, err, "failed to migrate test database")

	cfg := config.Config{
		Title: "studyhive-test",
		Webserver: config.Webserver{
			Port:           8080,
			RequestTimeout: 5,
			Token: config.Token{
				Secret:     "test-secret",
				ExpiryTime: time.Hour,
			},
		},
	}

	return New(&cfg, db)
}

// request runs one JSON request against the app and decodes the response.
func request(t *testing.T, svc *Service, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	status, raw := requestRaw(t, svc, method, path, token, payload)

	var body map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}

	return status, body
}

// requestList is request for endpoints answering with a JSON array.
func requestList(t *testing.T, svc *Service, method, path, token string, payload any) (int, []map[string]any) {
	t.Helper()

	status, raw := requestRaw(t, svc, method, path, token, payload)

	var body []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}

	return status, body
}

func requestRaw(t *testing.T, svc *Service, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(fiberHeaderContentType, "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := svc.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint: errcheck

	raw := bytes.NewBuffer(nil)
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw.Bytes()
}

const fiberHeaderContentType = "Content-Type"

// registerUser registers an account and returns its bearer token and id.
func registerUser(t *testing.T, svc *Service, username string) (token string, id uint64) {
	t.Helper()

	status, body := request(t, svc, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "register response should embed the user")

	return body["token"].(string), uint64(user["id"].(float64))
}

func TestCheckAlive(t *testing.T) {
	svc := newTestService(t)

	status, _ := request(t, svc, http.MethodGet, CheckAlivePath, "", nil)
	assert.Equal(t, http.StatusOK, status)

	// during graceful drain the probe flips to 503
	svc.alive.Store(false)

	status, _ = request(t, svc, http.MethodGet, CheckAlivePath, "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAccountRoutes(t *testing.T) {
	svc := newTestService(t)

	t.Run("register and login", func(t *testing.T) {
		token, _ := registerUser(t, svc, "alice")
		assert.NotEmpty(t, token)

		status, body := request(t, svc, http.MethodPost, "/api/auth/login", "", map[string]any{
			"username": "alice",
			"password": "secret-password",
		})
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("register validation", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/auth/register", "", map[string]any{
			"username": "bob",
			"email":    "not-an-email",
			"password": "secret-password",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation", body["error"])
	})

	t.Run("duplicate username", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/auth/register", "", map[string]any{
			"username": "alice",
			"email":    "alice2@example.com",
			"password": "secret-password",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation", body["error"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/auth/login", "", map[string]any{
			"username": "alice",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "unauthorized", body["error"])
	})
}

func TestGroupRoutes(t *testing.T) {
	svc := newTestService(t)

	aliceToken, aliceID := registerUser(t, svc, "alice")
	bobToken, bobID := registerUser(t, svc, "bob")

	t.Run("create requires auth", func(t *testing.T) {
		status, _ := request(t, svc, http.MethodPost, "/api/groups", "", map[string]any{
			"name":        "Math Wizards",
			"description": "problem solving",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	var groupID string

	t.Run("create", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/groups", aliceToken, map[string]any{
			"name":        "Math Wizards",
			"description": "problem solving",
			"icon":        "https://example.com/math_icon.png",
		})
		require.Equal(t, http.StatusCreated, status)

		groupID = fmt.Sprintf("%d", int(body["id"].(float64)))

		creator, ok := body["creator"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice", creator["username"])
		assert.Equal(t, float64(aliceID), creator["id"])
		assert.Empty(t, body["members"])
	})

	t.Run("malformed id", func(t *testing.T) {
		status, body := request(t, svc, http.MethodGet, "/api/groups/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation", body["error"])
	})

	t.Run("unknown group", func(t *testing.T) {
		status, body := request(t, svc, http.MethodGet, "/api/groups/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", body["error"])
	})

	t.Run("public get", func(t *testing.T) {
		status, body := request(t, svc, http.MethodGet, "/api/groups/"+groupID, "", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Math Wizards", body["name"])
	})

	t.Run("join and list by member", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/groups/"+groupID+"/join", bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []any{float64(bobID)}, body["members"])

		status, list := requestList(t, svc, http.MethodGet,
			fmt.Sprintf("/api/groups?member=%d", bobID), "", nil)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
		assert.Equal(t, "Math Wizards", list[0]["name"])
	})

	t.Run("like toggles", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/groups/"+groupID+"/like", bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []any{float64(bobID)}, body["likes"])

		status, body = request(t, svc, http.MethodPost, "/api/groups/"+groupID+"/like", bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["likes"])
	})

	t.Run("rate", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/groups/"+groupID+"/rate", aliceToken,
			map[string]any{"rating": 3})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(3), body["averageRating"])

		status, body = request(t, svc, http.MethodPost, "/api/groups/"+groupID+"/rate", bobToken,
			map[string]any{"rating": 5})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(4), body["averageRating"])
	})

	t.Run("rate out of range", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/groups/"+groupID+"/rate", bobToken,
			map[string]any{"rating": 9})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation", body["error"])
	})
}

func TestVideoSessionRoutes(t *testing.T) {
	svc := newTestService(t)

	aliceToken, _ := registerUser(t, svc, "alice")
	bobToken, _ := registerUser(t, svc, "bob")
	malloryToken, _ := registerUser(t, svc, "mallory")

	_, body := request(t, svc, http.MethodPost, "/api/groups", aliceToken, map[string]any{
		"name":        "Math Wizards",
		"description": "problem solving",
	})
	groupID := fmt.Sprintf("%d", int(body["id"].(float64)))
	sessionPath := "/api/groups/" + groupID + "/video-session"

	// alice and bob join; mallory stays outside
	for _, token := range []string{aliceToken, bobToken} {
		status, _ := request(t, svc, http.MethodPost, "/api/groups/"+groupID+"/join", token, nil)
		require.Equal(t, http.StatusOK, status)
	}

	t.Run("requires auth", func(t *testing.T) {
		status, _ := request(t, svc, http.MethodPost, sessionPath, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, sessionPath, malloryToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "forbidden", body["error"])
	})

	t.Run("no session yet", func(t *testing.T) {
		status, body := request(t, svc, http.MethodGet, sessionPath, aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["exists"])
	})

	var roomName string

	t.Run("members share one room", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, sessionPath, aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["isNew"])

		roomName = body["roomName"].(string)
		require.NotEmpty(t, roomName)

		status, body = request(t, svc, http.MethodPost, sessionPath, bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, body["isNew"]) // omitted when false
		assert.Equal(t, roomName, body["roomName"])
	})

	t.Run("any member may end it", func(t *testing.T) {
		status, body := request(t, svc, http.MethodDelete, sessionPath, bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["message"])

		status, body = request(t, svc, http.MethodGet, sessionPath, aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["exists"])
	})
}

func TestForumRoutes(t *testing.T) {
	svc := newTestService(t)

	amaToken, _ := registerUser(t, svc, "ama")
	kofiToken, _ := registerUser(t, svc, "kofi")

	_, created := request(t, svc, http.MethodPost, "/api/groups", amaToken, map[string]any{
		"name":        "Algebra Study",
		"description": "rings and fields",
	})
	groupID := int(created["id"].(float64))

	t.Run("post requires auth", func(t *testing.T) {
		status, _ := request(t, svc, http.MethodPost, "/api/forum", "", map[string]any{
			"groupId": groupID,
			"content": "What is a ring?",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("post to unknown group", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/forum", amaToken, map[string]any{
			"groupId": 9999,
			"content": "What is a ring?",
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not_found", body["error"])
	})

	var postID string

	t.Run("ask and answer", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/forum", amaToken, map[string]any{
			"groupId": groupID,
			"content": "What is a ring?",
		})
		require.Equal(t, http.StatusCreated, status)

		author, ok := body["author"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ama", author["username"])

		postID = fmt.Sprintf("%d", int(body["id"].(float64)))

		status, body = request(t, svc, http.MethodPost, "/api/forum/"+postID+"/answer", kofiToken,
			map[string]any{"content": "A set with two operations."})
		require.Equal(t, http.StatusCreated, status)

		answers, ok := body["answers"].([]any)
		require.True(t, ok)
		require.Len(t, answers, 1)

		answer := answers[0].(map[string]any)
		assert.Equal(t, "A set with two operations.", answer["content"])
		assert.Equal(t, "kofi", answer["author"].(map[string]any)["username"])
	})

	t.Run("whitespace content", func(t *testing.T) {
		status, body := request(t, svc, http.MethodPost, "/api/forum/"+postID+"/answer", kofiToken,
			map[string]any{"content": "   "})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation", body["error"])
	})

	t.Run("list group posts", func(t *testing.T) {
		status, list := requestList(t, svc, http.MethodGet,
			fmt.Sprintf("/api/forum/group/%d", groupID), "", nil)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, list, 1)
		assert.Equal(t, "What is a ring?", list[0]["content"])
	})
}
