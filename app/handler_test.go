package main

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// registerAndLogin creates a user through the API and returns its id and a
// valid bearer token.
func registerAndLogin(t *testing.T, ts *testServer, username, password string) (int, string) {
	status, _, body := ts.post(t, "/v1/users/register", map[string]any{
		"username": username,
		"name":     "Test User",
		"password": password,
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	user, ok := body["user"].(map[string]any)
	assert.True(t, ok)

	status, _, body = ts.post(t, "/v1/users/login", map[string]any{
		"username": username,
		"password": password,
	}, nil)
	assert.Equal(t, http.StatusOK, status)

	token, ok := body["token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	return int(user["id"].(float64)), token
}

func TestUserAPI(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	t.Run("register a valid user", func(t *testing.T) {
		status, _, body := ts.post(t, "/v1/users/register", map[string]any{
			"username": "karoliina",
			"name":     "Karoliina Virtanen",
			"password": "salainen",
		}, nil)

		assert.Equal(t, http.StatusCreated, status)

		user := body["user"].(map[string]any)
		assert.Equal(t, "karoliina", user["username"])
		assert.NotZero(t, user["id"])

		// No password material in any representation.
		assert.NotContains(t, user, "password")
		assert.NotContains(t, user, "password_hash")
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		status, _, body := ts.post(t, "/v1/users/register", map[string]any{
			"username": "karoliina",
			"name":     "Another Karoliina",
			"password": "salainen2",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]any{"username": "this username is already taken"}, body["error"])
	})

	t.Run("username too short", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/users/register", map[string]any{
			"username": "ka",
			"name":     "Karoliina Virtanen",
			"password": "salainen",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/users/login", map[string]any{
			"username": "karoliina",
			"password": "vaarasalasana",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("users are listed with their blog ids", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/users", nil)

		assert.Equal(t, http.StatusOK, status)

		users := body["users"].([]any)
		assert.Len(t, users, 1)

		user := users[0].(map[string]any)
		assert.Equal(t, "karoliina", user["username"])
		assert.Equal(t, []any{}, user["blogs"])
		assert.NotContains(t, user, "password_hash")
	})
}

func TestBlogAPI(t *testing.T) {
	app, db := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	userId, token := registerAndLogin(t, ts, "karoliina", "salainen")
	_, otherToken := registerAndLogin(t, ts, "lumi", "salainen")

	var blogId int

	t.Run("create requires a token", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/blogs", map[string]any{
			"title": "Kotipuutarhan kevat",
			"url":   "http://example.com/kevat",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("create without a title", func(t *testing.T) {
		status, _, body := ts.post(t, "/v1/blogs", map[string]any{
			"author": "Karoliina",
			"url":    "http://example.com/kevat",
		}, &token)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]any{"title": "must be provided"}, body["error"])
	})

	t.Run("create without a url", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/blogs", map[string]any{
			"title":  "Kotipuutarhan kevat",
			"author": "Karoliina",
		}, &token)

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("create with null likes stores zero", func(t *testing.T) {
		status, _, body := ts.post(t, "/v1/blogs", map[string]any{
			"title":  "Kotipuutarhan kevat",
			"author": "Karoliina",
			"url":    "http://example.com/kevat",
			"likes":  nil,
		}, &token)

		assert.Equal(t, http.StatusCreated, status)

		blog := body["blog"].(map[string]any)
		assert.Equal(t, float64(0), blog["likes"])
		assert.NotZero(t, blog["id"])

		owner := blog["owner"].(map[string]any)
		assert.Equal(t, float64(userId), owner["id"])
		assert.Equal(t, "karoliina", owner["username"])

		blogId = int(blog["id"].(float64))
	})

	t.Run("list returns the owner projection only", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/blogs", nil)

		assert.Equal(t, http.StatusOK, status)

		blogs := body["blogs"].([]any)
		assert.Len(t, blogs, 1)

		blog := blogs[0].(map[string]any)
		assert.NotZero(t, blog["id"])

		owner := blog["owner"].(map[string]any)
		assert.Equal(t, "karoliina", owner["username"])
		assert.NotContains(t, owner, "password")
		assert.NotContains(t, owner, "password_hash")
		assert.NotContains(t, owner, "blogs")
	})

	t.Run("update patches fields and defaults likes to zero", func(t *testing.T) {
		status, _, body := ts.put(t, fmt.Sprintf("/v1/blogs/%d", blogId), map[string]any{
			"title": "Kotipuutarhan kesa",
			"likes": 12,
		}, nil)

		assert.Equal(t, http.StatusOK, status)

		blog := body["blog"].(map[string]any)
		assert.Equal(t, "Kotipuutarhan kesa", blog["title"])
		assert.Equal(t, "http://example.com/kevat", blog["url"])
		assert.Equal(t, float64(12), blog["likes"])

		status, _, body = ts.put(t, fmt.Sprintf("/v1/blogs/%d", blogId), map[string]any{}, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), body["blog"].(map[string]any)["likes"])
	})

	t.Run("update an unknown id", func(t *testing.T) {
		status, _, _ := ts.put(t, "/v1/blogs/999", map[string]any{"likes": 1}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("stats aggregate the collection", func(t *testing.T) {
		status, _, body := ts.post(t, "/v1/blogs", map[string]any{
			"title":  "Vaellusreitit",
			"author": "Lumi",
			"url":    "http://example.com/vaellus",
			"likes":  11,
		}, &otherToken)
		assert.Equal(t, http.StatusCreated, status)

		status, _, body = ts.get(t, "/v1/blogs/stats", nil)
		assert.Equal(t, http.StatusOK, status)

		stats := body["stats"].(map[string]any)
		assert.Equal(t, float64(2), stats["blogs"])
		assert.Equal(t, float64(11), stats["total_likes"])
		assert.Equal(t, "Vaellusreitit", stats["favorite"].(map[string]any)["title"])
		assert.Equal(t, "Lumi", stats["most_likes"].(map[string]any)["author"])
	})

	t.Run("info message", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/blogs/info", nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "this is database api of blog app", body["infomessage"])
	})

	t.Run("delete by another user is unauthorized", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", blogId), &otherToken)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("delete by the owner", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", blogId), &token)
		assert.Equal(t, http.StatusNoContent, status)

		// The owner's back-reference set must not keep the deleted id.
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM user_blogs WHERE blog_id = $1", blogId).Scan(&count)
		assert.NoError(t, err)
		assert.Zero(t, count)

		status, _, body := ts.get(t, "/v1/blogs", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Len(t, body["blogs"].([]any), 1)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		status, _, _ := ts.delete(t, fmt.Sprintf("/v1/blogs/%d", blogId), &token)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestHealthCheckHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/v1/healthcheck", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", body["status"])
}
