package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/storycache/auth"
	"github.com/jonwraymond/storycache/cache"
	"github.com/jonwraymond/storycache/config"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate_Offline(t *testing.T) {
	t.Setenv("STORYCACHE_AUTH_ENABLED", "false")

	out, err := execute(t, "generate", "--user", "u1", "--genre", "fantasy", "--character", "the knight", "--offline", "--repeat", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "the knight pauses at the edge of the unknown")
	assert.Contains(t, out, "1. Press onward")
	assert.Contains(t, out, "backend mock")
	assert.Contains(t, out, "1 segments, 1 choice lists cached")
}

func TestGenerate_RequiresUser(t *testing.T) {
	t.Setenv("STORYCACHE_AUTH_ENABLED", "false")

	_, err := execute(t, "generate", "--offline")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("STORYCACHE_AUTH_SIGNING_KEY", testSigningKey)

	out, err := execute(t, "token", "--subject", "ops", "--role", "admin,operator")
	require.NoError(t, err)

	tok := strings.TrimSpace(out)
	authn := auth.NewJWTAuthenticator(auth.JWTConfig{}, auth.NewStaticKeyProvider([]byte(testSigningKey)))
	req := &auth.AuthRequest{Headers: http.Header{"Authorization": []string{"Bearer " + tok}}}
	res, err := authn.Authenticate(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Authenticated)
	assert.Equal(t, "ops", res.Identity.Principal)
	assert.True(t, res.Identity.HasRole("operator"))
}

func TestToken_RequiresSubject(t *testing.T) {
	t.Setenv("STORYCACHE_AUTH_SIGNING_KEY", testSigningKey)

	_, err := execute(t, "token")
	assert.Error(t, err)
}

func TestToken_NoKey(t *testing.T) {
	t.Setenv("STORYCACHE_AUTH_ENABLED", "false")

	_, err := execute(t, "token", "--subject", "ops")
	assert.ErrorIs(t, err, errNoSigningKey)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("STORYCACHE_AUTH_SIGNING_KEY", testSigningKey)
	t.Setenv("STORYCACHE_GENERATION_BACKEND", config.BackendMock)
	t.Setenv("STORYCACHE_SERVER_SHUTDOWN_TIMEOUT", "2s")
	cfg, err := config.Load(context.Background(), config.LoadOptions{})
	require.NoError(t, err)
	return cfg
}

func TestServe(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, appOptions{logWriter: io.Discard})
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + lis.Addr().String()

	done := make(chan error, 1)
	go func() { done <- serve(ctx, lis, a) }()

	// The admin surface sees what the service stored.
	_, err = a.service.Choices(ctx, cache.StoryContext{UserID: "u1", Genre: "noir"})
	require.NoError(t, err)

	get := func(path, bearer string) (int, string) {
		req, err := http.NewRequest(http.MethodGet, base+path, nil)
		require.NoError(t, err)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	code, _ := get("/health/cache", "")
	assert.Equal(t, http.StatusOK, code)

	code, body := get("/metrics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "storycache_misses_total")
	assert.Contains(t, body, "go_goroutines")

	code, _ = get("/admin/cache/stats", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	tok, err := auth.SignHS256([]byte(testSigningKey), auth.TokenSpec{Subject: "ops", Roles: []string{"admin"}, TTL: time.Minute}, time.Now())
	require.NoError(t, err)
	code, body = get("/admin/cache/stats", tok)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"segments":1`)
	assert.Contains(t, body, `"choices":1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_WarnsWhenAdminUnguarded(t *testing.T) {
	t.Setenv("STORYCACHE_AUTH_ENABLED", "false")
	cfg := testConfig(t)
	require.False(t, cfg.Auth.Enabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var logs bytes.Buffer
	a, err := newApp(ctx, cfg, appOptions{logWriter: &logs})
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + lis.Addr().String()

	done := make(chan error, 1)
	go func() { done <- serve(ctx, lis, a) }()

	var code int
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/admin/cache/stats")
		if err != nil {
			return false
		}
		resp.Body.Close()
		code = resp.StatusCode
		return true
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, http.StatusOK, code, "admin routes are open without auth")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	var warned bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if strings.Contains(line, `"level":"warn"`) && strings.Contains(line, "admin routes are unauthenticated") {
			warned = true
		}
	}
	assert.True(t, warned, "expected an unauthenticated admin warning in logs:\n%s", logs.String())
}
