package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	if len(responseBody) == 0 {
		return res.StatusCode, res.Header, nil
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	tokenAuth := userservice.NewTokenAuth("test-secret", time.Hour)

	cfg := &Config{
		Port:        ":0",
		Environment: "test",
		Version:     "test",
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, tokenAuth, cache),
		blogService: blogservice.NewBlogService(db, cache),
	}

	return app, db
}

func (ts *testServer) request(t *testing.T, method, path string, payload any, token *string) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.request(t, http.MethodGet, path, nil, token)
}

func (ts *testServer) post(t *testing.T, path string, payload any, token *string) (int, http.Header, envelope) {
	return ts.request(t, http.MethodPost, path, payload, token)
}

func (ts *testServer) put(t *testing.T, path string, payload any, token *string) (int, http.Header, envelope) {
	return ts.request(t, http.MethodPut, path, payload, token)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.request(t, http.MethodDelete, path, nil, token)
}
