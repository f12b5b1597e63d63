package authsession

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authsession/client"
	"github.com/viant/authsession/ui"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return signed
}

type apiServer struct {
	*httptest.Server
	sessionToken string
	fileToken    string
	fileCalls    atomic.Int32
}

func newAPIServer(t *testing.T) *apiServer {
	ret := &apiServer{
		sessionToken: sign(t, jwt.MapClaims{"id": "a1", "type": "auth", "exp": time.Now().Add(time.Hour).Unix()}),
		fileToken:    sign(t, jwt.MapClaims{"id": "a1", "type": "file", "exp": time.Now().Add(3 * time.Minute).Unix()}),
	}
	admin := map[string]any{"id": "a1", "collectionId": "pbc_superusers", "collectionName": "_superusers", "email": "admin@example.com"}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/collections/_superusers/auth-with-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": ret.sessionToken, "record": admin})
	})
	mux.HandleFunc("/api/files/token", func(w http.ResponseWriter, r *http.Request) {
		ret.fileCalls.Add(1)
		if r.Header.Get("Authorization") != ret.sessionToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "The request requires valid record authorization token.", "data": map[string]any{}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": ret.fileToken})
	})
	mux.HandleFunc("/api/collections", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []map[string]any{
			{"id": "c_public", "name": "posts", "fields": []map[string]any{{"name": "cover", "type": "file"}}},
			{"id": "c_private", "name": "invoices", "fields": []map[string]any{{"name": "document", "type": "file", "protected": true}}},
		}})
	})
	ret.Server = httptest.NewServer(mux)
	return ret
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func TestApp_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	server := newAPIServer(t)
	defer server.Close()

	app, err := New(ctx, &Options{BaseURL: server.URL, StorageURL: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()
	require.NoError(t, app.Start(ctx))
	assert.Nil(t, app.Superuser.Get())

	_, err = app.Client.Collection("_superusers").AuthWithPassword(ctx, "admin@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, app.Store.IsValid())
	assert.Equal(t, "admin@example.com", app.Superuser.Get()["email"])

	require.NoError(t, app.RefreshProtectedCollections(ctx))
	public := client.Record{"id": "r1", "collectionId": "c_public"}
	URL, err := app.FileURL(ctx, public, "cover.png")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/api/files/c_public/r1/cover.png", URL)
	assert.Equal(t, int32(0), server.fileCalls.Load())

	private := client.Record{"id": "r2", "collectionId": "c_private"}
	URL, err = app.FileURL(ctx, private, "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/api/files/c_private/r2/doc.pdf?token="+server.fileToken, URL)
	_, err = app.FileToken(ctx, "c_private")
	require.NoError(t, err)
	assert.Equal(t, int32(1), server.fileCalls.Load())

	// a second process over the same storage sees the session
	restarted, err := New(ctx, &Options{BaseURL: server.URL, StorageURL: app.Options.StorageURL}, zerolog.Nop())
	require.NoError(t, err)
	defer restarted.Close()
	assert.Equal(t, "a1", restarted.Superuser.Get().ID())

	require.NoError(t, app.Logout(true))
	assert.Nil(t, app.Superuser.Get())
	assert.False(t, app.Store.IsValid())
	assert.Equal(t, ui.LoginRoute, app.Router.Current())
}

func TestApp_UnauthorizedResponseLogsOut(t *testing.T) {
	ctx := context.Background()
	server := newAPIServer(t)
	defer server.Close()

	app, err := New(ctx, &Options{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)
	defer app.Close()
	foreign := sign(t, jwt.MapClaims{"id": "a1", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, app.Store.Save(foreign, client.Record{"id": "a1", "collectionName": "_superusers"}))
	require.True(t, app.Superuser.IsSet())

	_, err = app.FileToken(ctx, "")
	require.Error(t, err)
	require.NoError(t, app.HandleError(err, true, ""))

	assert.False(t, app.Superuser.IsSet())
	assert.Equal(t, "", app.Store.Token())
	assert.Equal(t, ui.LoginRoute, app.Router.Current())
	toasts := app.Toasts.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, "The request requires valid record authorization token.", toasts[0].Message)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(context.Background(), &Options{}, zerolog.Nop())
	assert.Error(t, err)
	_, err = New(context.Background(), nil, zerolog.Nop())
	assert.Error(t, err)
}
