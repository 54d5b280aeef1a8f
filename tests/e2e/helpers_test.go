package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// 起動済みサーバーに対するスモークテスト。
// E2E=1 のときだけ実行する（通常の go test では skip）
func requireE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 and BASE_URL to run e2e tests against a running server")
	}
}

type TestClient struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &TestClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TestClient) do(t *testing.T, method string, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	return c.doWith(t, method, path, body, nil)
}

func (c *TestClient) doWith(t *testing.T, method string, path string, body interface{}, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

// 管理者でログインしたクライアント。
// 商品作成が要るテスト用に ADMIN_EMAIL/ADMIN_PASSWORD が設定済みの環境でだけ走る
func adminClient(t *testing.T) *TestClient {
	t.Helper()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		t.Skip("set ADMIN_EMAIL and ADMIN_PASSWORD to run admin e2e tests")
	}

	c := NewTestClient(t)
	resp, raw := c.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: status=%d body=%s", resp.StatusCode, raw)
	}

	var out struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode admin login response: %v", err)
	}
	c.Token = out.Token.AccessToken
	return c
}

// 新規ユーザーを登録してログイン済みクライアントを返す
func (c *TestClient) registerAndLogin(t *testing.T) string {
	t.Helper()

	email := fmt.Sprintf("e2e-%d@example.com", time.Now().UnixNano())
	resp, raw := c.do(t, http.MethodPost, "/auth/register", map[string]string{
		"name":     "E2E User",
		"email":    email,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status=%d body=%s", resp.StatusCode, raw)
	}

	resp, raw = c.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status=%d body=%s", resp.StatusCode, raw)
	}

	var out struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if out.Token.AccessToken == "" {
		t.Fatalf("login returned empty token: %s", raw)
	}

	c.Token = out.Token.AccessToken
	return email
}
