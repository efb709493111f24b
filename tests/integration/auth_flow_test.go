package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "owner@example.com"
	adminPassword = "IntegrationPass1"
)

var testDB *TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	db, err := SetupTestDatabase(ctx)
	if err != nil {
		// Docker not available; integration tests cannot run here
		os.Exit(0)
	}
	testDB = db

	code := m.Run()

	testDB.Teardown(ctx)
	os.Exit(code)
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginData struct {
	Admin struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"admin"`
	Tokens tokenPair `json:"tokens"`
}

func login(t *testing.T, ts *TestServer) loginData {
	t.Helper()

	resp, err := ts.PostJSON("/api/auth/login", "", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	success, _, data, err := DecodeEnvelope(resp)
	require.NoError(t, err)
	require.True(t, success)

	var result loginData
	require.NoError(t, json.Unmarshal(data, &result))
	require.NotEmpty(t, result.Tokens.AccessToken)
	require.NotEmpty(t, result.Tokens.RefreshToken)
	return result
}

func setupServer(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, testDB.CleanupTables(ctx))
	_, err := SeedAdmin(ctx, testDB.DB, adminEmail, adminPassword, true)
	require.NoError(t, err)

	ts := NewTestServer(testDB.DB)
	t.Cleanup(ts.Close)
	return ts
}

func TestLoginLogoutFlow(t *testing.T) {
	ts := setupServer(t)

	result := login(t, ts)
	assert.Equal(t, adminEmail, result.Admin.Email)
	assert.Equal(t, "admin", result.Admin.Role)

	// Access token works against a protected endpoint
	resp, err := ts.Get("/api/auth/verify", result.Tokens.AccessToken)
	require.NoError(t, err)
	success, _, _, err := DecodeEnvelope(resp)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, success)

	// Logout removes the refresh token
	resp, err = ts.PostJSON("/api/auth/logout", result.Tokens.AccessToken, map[string]string{
		"refreshToken": result.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The logged-out refresh token can no longer be exchanged
	resp, err = ts.PostJSON("/api/auth/refresh", "", map[string]string{
		"refreshToken": result.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin_WrongCredentialsAreIndistinguishable(t *testing.T) {
	ts := setupServer(t)

	wrongPassword, err := ts.PostJSON("/api/auth/login", "", map[string]string{
		"email":    adminEmail,
		"password": "WrongPassword1",
	})
	require.NoError(t, err)
	unknownEmail, err := ts.PostJSON("/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "WrongPassword1",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	_, msg1, _, err := DecodeEnvelope(wrongPassword)
	require.NoError(t, err)
	_, msg2, _, err := DecodeEnvelope(unknownEmail)
	require.NoError(t, err)
	assert.Equal(t, msg1, msg2)
}

func TestRefreshRotation(t *testing.T) {
	ts := setupServer(t)
	result := login(t, ts)

	// First exchange succeeds
	resp, err := ts.PostJSON("/api/auth/refresh", "", map[string]string{
		"refreshToken": result.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, _, data, err := DecodeEnvelope(resp)
	require.NoError(t, err)

	var refreshed struct {
		Tokens tokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(data, &refreshed))
	assert.NotEqual(t, result.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

	// Replaying the consumed token fails
	resp, err = ts.PostJSON("/api/auth/refresh", "", map[string]string{
		"refreshToken": result.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// The replacement token still works
	resp, err = ts.PostJSON("/api/auth/refresh", "", map[string]string{
		"refreshToken": refreshed.Tokens.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	ts := setupServer(t)

	first := login(t, ts)
	second := login(t, ts)

	resp, err := ts.PutJSON("/api/auth/change-password", first.Tokens.AccessToken, map[string]string{
		"currentPassword": adminPassword,
		"newPassword":     "RotatedPass1234",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Both sessions' refresh tokens are revoked
	for _, token := range []string{first.Tokens.RefreshToken, second.Tokens.RefreshToken} {
		resp, err := ts.PostJSON("/api/auth/refresh", "", map[string]string{"refreshToken": token})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	// Login with the new password works
	resp, err = ts.PostJSON("/api/auth/login", "", map[string]string{
		"email":    adminEmail,
		"password": "RotatedPass1234",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedEndpointsRejectAnonymous(t *testing.T) {
	ts := setupServer(t)

	resp, err := ts.Get("/api/auth/profile", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp, err = ts.PostJSON("/api/projects", "", map[string]string{"title": "x", "description": "y"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestContentCRUDAndPublicReads(t *testing.T) {
	ts := setupServer(t)
	session := login(t, ts)

	// Create a project as admin
	resp, err := ts.PostJSON("/api/projects", session.Tokens.AccessToken, map[string]interface{}{
		"title":        "Folio API",
		"description":  "Portfolio backend",
		"technologies": []string{"Go", "PostgreSQL"},
		"featured":     true,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, _, data, err := DecodeEnvelope(resp)
	require.NoError(t, err)

	var created struct {
		Project struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"project"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "folio-api", created.Project.Slug)

	// Anonymous read sees it
	resp, err = ts.Get("/api/projects?featured=true", "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, _, data, err = DecodeEnvelope(resp)
	require.NoError(t, err)

	var listed struct {
		Projects []struct {
			ID string `json:"id"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(data, &listed))
	require.Len(t, listed.Projects, 1)
	assert.Equal(t, created.Project.ID, listed.Projects[0].ID)
}

func TestContactMessageFlow(t *testing.T) {
	ts := setupServer(t)

	// Anonymous visitor submits a message
	resp, err := ts.PostJSON("/api/contact", "", map[string]string{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"subject": "Hi",
		"body":    "Great work",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Admin lists it
	session := login(t, ts)
	resp, err = ts.Get("/api/messages", session.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, _, data, err := DecodeEnvelope(resp)
	require.NoError(t, err)

	var listed struct {
		Messages []struct {
			ID   string `json:"id"`
			Read bool   `json:"read"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &listed))
	require.Len(t, listed.Messages, 1)
	assert.False(t, listed.Messages[0].Read)

	// Mark it read
	resp, err = ts.PutJSON("/api/messages/"+listed.Messages[0].ID+"/read", session.Tokens.AccessToken, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
