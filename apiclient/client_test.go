package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-notes-client/apiclient"
	"github.com/jrsteele09/go-notes-client/credentials"
	credrepofake "github.com/jrsteele09/go-notes-client/credentials/repofake"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/notes"
	"github.com/jrsteele09/go-notes-client/token"
	"github.com/jrsteele09/go-notes-client/users"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          map[string]any
}

// testFixture holds a stub API server and a client pointed at it
type testFixture struct {
	server   *httptest.Server
	creds    *credrepofake.FakeCredentialRepo
	client   *apiclient.Client
	lock     sync.Mutex
	requests []recordedRequest
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	f := &testFixture{creds: credrepofake.NewFakeCredentialRepo()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		f.lock.Lock()
		f.requests = append(f.requests, rec)
		f.lock.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	client, err := apiclient.New(f.server.URL+"/api/",
		apiclient.WithTokenSource(token.NewStoredSource(f.creds)),
		apiclient.WithTimeout(2*time.Second),
		apiclient.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	f.client = client
	return f
}

func (f *testFixture) lastRequest(t *testing.T) recordedRequest {
	t.Helper()
	f.lock.Lock()
	defer f.lock.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := apiclient.New("  ")
	require.Error(t, err)
}

func TestSendSigninOTP(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
	})

	require.NoError(t, f.client.SendSigninOTP(context.Background(), "a@b.com"))

	req := f.lastRequest(t)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/api"+apiclient.RouteSigninSendOTP, req.Path)
	require.Equal(t, "application/json", req.ContentType)
	require.NotEmpty(t, req.RequestID)
	require.Equal(t, "a@b.com", req.Body["email"])
	require.Empty(t, req.Authorization)
}

func TestSendSignupOTP_SendsDetails(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
	})

	details := users.SignupDetails{FullName: "Ada Lovelace", Email: "ada@example.com", DateOfBirth: "1815-12-10"}
	require.NoError(t, f.client.SendSignupOTP(context.Background(), details))

	req := f.lastRequest(t)
	require.Equal(t, "/api"+apiclient.RouteSignupSendOTP, req.Path)
	require.Equal(t, "Ada Lovelace", req.Body["fullName"])
	require.Equal(t, "1815-12-10", req.Body["dateOfBirth"])
}

func TestVerifySigninOTP(t *testing.T) {
	t.Run("Token in body", func(t *testing.T) {
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"user":  map[string]string{"_id": "u1", "fullName": "Ada", "email": "a@b.com"},
				"token": "body-token",
			})
		})

		resp, err := f.client.VerifySigninOTP(context.Background(), "a@b.com", "123456")
		require.NoError(t, err)
		require.Equal(t, "u1", resp.User.ID)
		require.Equal(t, "body-token", resp.Token)

		req := f.lastRequest(t)
		require.Equal(t, "/api"+apiclient.RouteSigninVerifyOTP, req.Path)
		require.Equal(t, "123456", req.Body["otp"])
	})

	t.Run("Token in cookie", func(t *testing.T) {
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "cookie-token", HttpOnly: true})
			writeJSON(w, http.StatusOK, map[string]any{
				"user": map[string]string{"id": "u1", "email": "a@b.com"},
			})
		})

		resp, err := f.client.VerifySigninOTP(context.Background(), "a@b.com", "123456")
		require.NoError(t, err)
		require.Equal(t, "cookie-token", resp.Token)
	})

	t.Run("Invalid OTP", func(t *testing.T) {
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid or expired OTP"})
		})

		_, err := f.client.VerifySigninOTP(context.Background(), "a@b.com", "000000")
		require.Error(t, err)

		var se *apperrors.ServerError
		require.ErrorAs(t, err, &se)
		require.Equal(t, http.StatusBadRequest, se.Status)
		require.Equal(t, "Invalid or expired OTP", apperrors.UserMessage(err, "Invalid OTP"))
	})

	t.Run("Missing user", func(t *testing.T) {
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		})

		_, err := f.client.VerifySigninOTP(context.Background(), "a@b.com", "123456")
		require.Error(t, err)
	})
}

func TestVerifySignupOTP(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"user":  map[string]string{"id": "u2", "fullName": "Ada", "email": "ada@example.com"},
			"token": "t",
		})
	})

	details := users.SignupDetails{FullName: "Ada", Email: "ada@example.com", DateOfBirth: "1990-01-01"}
	resp, err := f.client.VerifySignupOTP(context.Background(), details, "654321")
	require.NoError(t, err)
	require.Equal(t, "u2", resp.User.ID)

	req := f.lastRequest(t)
	require.Equal(t, "/api"+apiclient.RouteSignupVerifyOTP, req.Path)
	require.Equal(t, "654321", req.Body["otp"])
	require.Equal(t, "ada@example.com", req.Body["email"])
}

func TestProfile(t *testing.T) {
	t.Run("Attaches stored bearer token", func(t *testing.T) {
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"user": map[string]string{"id": "u1", "email": "a@b.com"}})
		})
		require.NoError(t, f.creds.Save(&credentials.Credential{Token: "opaque-session-token"}))

		user, err := f.client.Profile(context.Background())
		require.NoError(t, err)
		require.Equal(t, "a@b.com", user.Email)
		require.Equal(t, "Bearer opaque-session-token", f.lastRequest(t).Authorization)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		})

		_, err := f.client.Profile(context.Background())
		require.Error(t, err)
		require.True(t, apperrors.IsAuthorization(err))
		require.False(t, apperrors.IsTransport(err))
	})
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	})

	require.NoError(t, f.client.Logout(context.Background()))
	req := f.lastRequest(t)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/api"+apiclient.RouteLogout, req.Path)
}

func TestNotesEndpoints(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/notes":
			writeJSON(w, http.StatusOK, map[string]any{"notes": []map[string]any{
				{"_id": "n2", "title": "second", "content": "b", "createdAt": created.Add(time.Hour)},
				{"_id": "n1", "title": "first", "content": "a", "createdAt": created},
			}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/notes":
			writeJSON(w, http.StatusCreated, map[string]any{"note": map[string]any{"_id": "n3", "title": "new", "content": "c", "createdAt": created}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/notes/n1":
			writeJSON(w, http.StatusOK, map[string]any{"note": map[string]any{"_id": "n1", "title": "edited", "content": "a2", "createdAt": created}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/notes/n1":
			writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Note not found"})
		}
	})
	ctx := context.Background()

	var repo notes.Repo = f.client

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "n2", list[0].ID)

	note, err := repo.Create(ctx, notes.Draft{Title: "new", Content: "c"})
	require.NoError(t, err)
	require.Equal(t, "n3", note.ID)
	require.Equal(t, "new", f.lastRequest(t).Body["title"])

	note, err = repo.Update(ctx, "n1", notes.Draft{Title: "edited", Content: "a2"})
	require.NoError(t, err)
	require.Equal(t, "edited", note.Title)
	require.Equal(t, http.MethodPut, f.lastRequest(t).Method)

	require.NoError(t, repo.Delete(ctx, "n1"))

	err = repo.Delete(ctx, "missing")
	var se *apperrors.ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusNotFound, se.Status)
	require.Equal(t, "Note not found", se.Message)
}

func TestList_EmptyBody(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	list, err := f.client.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestTransportError_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := apiclient.New(url, apiclient.WithLogger(zerolog.Nop()), apiclient.WithTimeout(time.Second))
	require.NoError(t, err)

	err = client.SendSigninOTP(context.Background(), "a@b.com")
	require.Error(t, err)
	require.True(t, apperrors.IsTransport(err))
	require.Equal(t, apperrors.MsgServerUnreachable, apperrors.UserMessage(err, "Failed to send OTP"))
}

func TestServerError_NoMessage(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := f.client.SendSigninOTP(context.Background(), "a@b.com")
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrServer)
	require.Equal(t, "Failed to send OTP", apperrors.UserMessage(err, "Failed to send OTP"))
}
