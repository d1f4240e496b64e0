package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"abusebin/internal/authz"
	"abusebin/internal/config"
	"abusebin/internal/database"
	"abusebin/internal/middleware"
	"abusebin/internal/models"
	"abusebin/internal/notifications"
	"abusebin/internal/repository"
	"abusebin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires a Server against an in-memory SQLite database. The
// Prometheus middleware is left out so repeated test runs don't clash on
// collector registration.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret", Env: "test"}
	middleware.InitMiddleware(cfg)

	db, err := database.ConnectSQLite()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	pasteRepo := repository.NewPasteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	hallRepo := repository.NewHallPostRepository(db)

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    userRepo,
		followRepo:  followRepo,
		pasteRepo:   pasteRepo,
		commentRepo: commentRepo,
		hallRepo:    hallRepo,
		hub:         notifications.NewHub(),
	}
	s.userService = service.NewUserService(userRepo, followRepo, pasteRepo)
	s.pasteService = service.NewPasteService(pasteRepo, userRepo)
	s.commentService = service.NewCommentService(commentRepo, pasteRepo, userRepo)
	s.moderationService = service.NewModerationService(userRepo, followRepo, pasteRepo)
	s.hallService = service.NewHallService(hallRepo, pasteRepo, userRepo)
	return s
}

// newTestApp registers the API routes without the rate limiters so tests
// don't need Redis.
func newTestApp(s *Server) *fiber.App {
	app := fiber.New()

	app.Post("/api/auth/signup", s.Signup)
	app.Post("/api/auth/login", s.Login)
	app.Get("/api/auth/session", middleware.AuthRequired, s.Session)

	app.Get("/api/pastes", s.GetPastes)
	app.Get("/api/pastes/:id/comments", s.GetComments)
	app.Get("/api/pastes/:id", middleware.OptionalAuth, s.GetPaste)
	app.Post("/api/pastes", middleware.AuthRequired, s.CreatePaste)
	app.Put("/api/pastes/:id", middleware.AuthRequired, s.UpdatePaste)
	app.Delete("/api/pastes/:id", middleware.AuthRequired, s.DeletePaste)
	app.Post("/api/pastes/:id/react", middleware.AuthRequired, s.ReactToPaste)
	app.Post("/api/pastes/:id/comments", middleware.AuthRequired, s.CreateComment)
	app.Delete("/api/comments/:commentId", middleware.AuthRequired, s.DeleteComment)

	app.Post("/api/admin/users/:id/ban", middleware.AuthRequired, s.BanUser)
	app.Put("/api/admin/pastes/:id/pin", middleware.AuthRequired, s.PinPaste)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &fields), "body: %s", raw)
	}
	return resp, fields
}

// signup registers an account and returns the created user and its token.
func signup(t *testing.T, app *fiber.App, username string) (*models.User, string) {
	t.Helper()

	resp, fields := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Password123!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, json.Unmarshal(fields["user"], &user))
	var token string
	require.NoError(t, json.Unmarshal(fields["token"], &token))
	return &user, token
}

func TestSignupLoginSession(t *testing.T) {
	s := newTestServer(t)
	app := newTestApp(s)

	user, token := signup(t, app, "alice")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, authz.RoleUser, user.Role)
	assert.NotEmpty(t, token)

	// Duplicate username is rejected.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "Password123!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Case variants of a taken username or email collide too.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "ALICE",
		"email":    "someone@example.com",
		"password": "Password123!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "someone",
		"email":    "Alice@Example.com",
		"password": "Password123!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login accepts any casing of the identifier.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ALICE",
		"password": "Password123!",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Wrong password.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "WrongPassword1!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid login, then session with the issued token.
	resp, fields := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "Password123!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(fields["token"], &token))

	resp, fields = doJSON(t, app, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sessionUser models.User
	require.NoError(t, json.Unmarshal(fields["user"], &sessionUser))
	assert.Equal(t, user.ID, sessionUser.ID)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	s := newTestServer(t)
	app := newTestApp(s)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/pastes", "", map[string]string{
		"title": "No Token", "content": "body",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPasteLifecycle(t *testing.T) {
	s := newTestServer(t)
	app := newTestApp(s)

	_, token := signup(t, app, "author")

	resp, fields := doJSON(t, app, http.MethodPost, "/api/pastes", token, map[string]string{
		"title":   "Hello World",
		"content": "first paste",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var paste models.Paste
	require.NoError(t, json.Unmarshal(fields["paste"], &paste))
	assert.Equal(t, "hello-world", paste.ID)

	// A second paste inside the cooldown window is rejected for regular users.
	resp, body := doJSON(t, app, http.MethodPost, "/api/pastes", token, map[string]string{
		"title":   "Too Soon",
		"content": "second paste",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "wait")

	// Anonymous views count; the author's own view doesn't.
	resp, fields = doJSON(t, app, http.MethodGet, "/api/pastes/hello-world", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(fields["paste"], &paste))
	assert.Equal(t, 1, paste.Views)

	resp, fields = doJSON(t, app, http.MethodGet, "/api/pastes/hello-world", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(fields["paste"], &paste))
	assert.Equal(t, 1, paste.Views)

	// Front page lists it.
	resp, fields = doJSON(t, app, http.MethodGet, "/api/pastes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pastes []models.Paste
	require.NoError(t, json.Unmarshal(fields["pastes"], &pastes))
	require.Len(t, pastes, 1)

	// A regular user cannot edit their own paste.
	resp, _ = doJSON(t, app, http.MethodPut, "/api/pastes/hello-world", token, map[string]string{
		"content": "edited",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestReactionToggle(t *testing.T) {
	s := newTestServer(t)
	app := newTestApp(s)

	_, authorToken := signup(t, app, "author")
	_, readerToken := signup(t, app, "reader")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/pastes", authorToken, map[string]string{
		"title": "Reactions", "content": "body",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	react := func(kind string) models.Paste {
		resp, fields := doJSON(t, app, http.MethodPost, "/api/pastes/reactions/react", readerToken, map[string]string{
			"type": kind,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var p models.Paste
		require.NoError(t, json.Unmarshal(fields["paste"], &p))
		return p
	}

	p := react("like")
	assert.Len(t, p.Likes, 1)
	assert.Empty(t, p.Dislikes)

	// Switching replaces, repeating removes.
	p = react("dislike")
	assert.Empty(t, p.Likes)
	assert.Len(t, p.Dislikes, 1)

	p = react("dislike")
	assert.Empty(t, p.Likes)
	assert.Empty(t, p.Dislikes)
}

func TestCommentEndpoints(t *testing.T) {
	s := newTestServer(t)
	app := newTestApp(s)

	_, authorToken := signup(t, app, "author")
	_, commenterToken := signup(t, app, "commenter")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/pastes", authorToken, map[string]string{
		"title": "Discussable", "content": "body",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, fields := doJSON(t, app, http.MethodPost, "/api/pastes/discussable/comments", commenterToken, map[string]string{
		"content": "nice paste",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	require.NoError(t, json.Unmarshal(fields["comment"], &comment))

	resp, fields = doJSON(t, app, http.MethodGet, "/api/pastes/discussable/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(fields["comments"], &comments))
	require.Len(t, comments, 1)

	// The paste author (regular role) cannot delete someone else's comment.
	path := fmt.Sprintf("/api/comments/%d", comment.ID)
	resp, _ = doJSON(t, app, http.MethodDelete, path, authorToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Its author can.
	resp, _ = doJSON(t, app, http.MethodDelete, path, commenterToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBanEndpoint(t *testing.T) {
	s := newTestServer(t)
	app := newTestApp(s)

	mod, modToken := signup(t, app, "moderator")
	mod.Role = authz.RoleMod
	require.NoError(t, s.userRepo.Update(context.Background(), mod))

	target, _ := signup(t, app, "troll")

	resp, fields := doJSON(t, app, http.MethodPost, "/api/admin/users/"+target.ID+"/ban", modToken, map[string]string{
		"reason": "spam",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var banned models.User
	require.NoError(t, json.Unmarshal(fields["user"], &banned))
	assert.True(t, banned.Banned)

	// Banned accounts cannot log in.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "troll",
		"password": "Password123!",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// And lose their existing session.
	bannedToken, err := s.generateToken(target)
	require.NoError(t, err)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/auth/session", bannedToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPinResetsViews(t *testing.T) {
	s := newTestServer(t)
	app := newTestApp(s)

	admin, adminToken := signup(t, app, "admin")
	admin.Role = authz.RoleAdmin
	require.NoError(t, s.userRepo.Update(context.Background(), admin))

	resp, _ := doJSON(t, app, http.MethodPost, "/api/pastes", adminToken, map[string]string{
		"title": "Pinnable", "content": "body",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Accumulate an anonymous view.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/pastes/pinnable", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, fields := doJSON(t, app, http.MethodPut, "/api/admin/pastes/pinnable/pin", adminToken, map[string]bool{
		"pinned": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var paste models.Paste
	require.NoError(t, json.Unmarshal(fields["paste"], &paste))
	assert.True(t, paste.Pinned)
	assert.Zero(t, paste.Views)
}
