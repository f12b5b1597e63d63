package authstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authsession/client"
	"github.com/viant/authsession/storage"
	"github.com/viant/authsession/superuser"
)

func sign(t *testing.T, expiry time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "a1", "exp": expiry.Unix()}).SignedString([]byte("test"))
	require.NoError(t, err)
	return signed
}

type failingStorage struct {
	storage.Storage
	err error
}

func (f *failingStorage) Set(context.Context, string, string) error { return f.err }
func (f *failingStorage) Remove(context.Context, string) error      { return f.err }

type recordingSink struct {
	calls []client.Record
}

func (r *recordingSink) SetSuperuser(record client.Record) {
	r.calls = append(r.calls, record)
}

func TestLocalStore_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory(nil)
	store, err := NewLocalStore(ctx, mem)
	require.NoError(t, err)
	assert.False(t, store.IsValid())

	tok := sign(t, time.Now().Add(time.Hour))
	record := client.Record{"id": "a1", "collectionName": superuser.CollectionName}
	var notified []string
	unsubscribe := store.OnChange(func(token string, _ client.Record) {
		notified = append(notified, token)
	})
	require.NoError(t, store.Save(tok, record))
	assert.True(t, store.IsValid())
	assert.Equal(t, []string{tok}, notified)

	reloaded, err := NewLocalStore(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, tok, reloaded.Token())
	assert.Equal(t, "a1", reloaded.Record().ID())

	require.NoError(t, store.Clear())
	assert.Equal(t, []string{tok, ""}, notified)
	assert.Equal(t, "", store.Token())
	assert.Nil(t, store.Record())
	_, ok, _ := mem.Get(ctx, DefaultStorageKey)
	assert.False(t, ok)

	unsubscribe()
	require.NoError(t, store.Save(tok, record))
	assert.Len(t, notified, 2)
}

func TestLocalStore_Expired(t *testing.T) {
	store, err := NewLocalStore(context.Background(), storage.NewMemory(nil))
	require.NoError(t, err)
	require.NoError(t, store.Save(sign(t, time.Now().Add(-time.Minute)), client.Record{"id": "a1"}))
	assert.False(t, store.IsValid())
	require.NoError(t, store.Save("not-a-jwt", client.Record{"id": "a1"}))
	assert.False(t, store.IsValid())
}

func TestLocalStore_MalformedDocument(t *testing.T) {
	mem := storage.NewMemory(map[string]string{"custom": "{broken"})
	store, err := NewLocalStore(context.Background(), mem, WithStorageKey("custom"))
	require.NoError(t, err)
	assert.Equal(t, "", store.Token())
	assert.False(t, store.IsValid())
}

func TestLocalStore_WriteFailure(t *testing.T) {
	writeErr := errors.New("disk full")
	backend := &failingStorage{Storage: storage.NewMemory(nil)}
	store, err := NewLocalStore(context.Background(), backend)
	require.NoError(t, err)

	backend.err = writeErr
	err = store.Save(sign(t, time.Now().Add(time.Hour)), client.Record{"id": "a1"})
	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, "", store.Token())
}

func TestAppStore(t *testing.T) {
	tok := sign(t, time.Now().Add(time.Hour))
	admin := client.Record{"id": "a1", "collectionName": superuser.CollectionName}
	user := client.Record{"id": "u1", "collectionName": "users"}

	var testCases = []struct {
		description string
		record      client.Record
		expect      client.Record
	}{
		{description: "superuser published", record: admin, expect: admin},
		{description: "other collection clears", record: user, expect: nil},
		{description: "nil record clears", record: nil, expect: nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			base, err := NewLocalStore(context.Background(), storage.NewMemory(nil))
			require.NoError(t, err)
			projector := superuser.New()
			projector.SetSuperuser(admin)
			store := NewAppStore(base, projector)
			assert.Nil(t, projector.Get(), "seeded from empty storage")

			projector.SetSuperuser(admin)
			require.NoError(t, store.Save(tok, testCase.record))
			assert.Equal(t, testCase.expect, projector.Get())
		})
	}
}

func TestAppStore_SeedAndClear(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory(nil)
	tok := sign(t, time.Now().Add(time.Hour))
	seed, err := NewLocalStore(ctx, mem)
	require.NoError(t, err)
	require.NoError(t, seed.Save(tok, client.Record{"id": "a1", "collectionName": superuser.CollectionName}))

	base, err := NewLocalStore(ctx, mem)
	require.NoError(t, err)
	sink := &recordingSink{}
	store := NewAppStore(base, sink)
	require.Len(t, sink.calls, 1)
	assert.Equal(t, "a1", sink.calls[0].ID())
	assert.True(t, store.IsValid())
	assert.Equal(t, tok, store.Token())

	require.NoError(t, store.Clear())
	require.Len(t, sink.calls, 2)
	assert.Nil(t, sink.calls[1])
	assert.Nil(t, store.Record())
}

func TestAppStore_WriteFailureKeepsProjection(t *testing.T) {
	writeErr := errors.New("quota exceeded")
	backend := &failingStorage{Storage: storage.NewMemory(nil)}
	base, err := NewLocalStore(context.Background(), backend)
	require.NoError(t, err)
	sink := &recordingSink{}
	store := NewAppStore(base, sink)

	backend.err = writeErr
	err = store.Save(sign(t, time.Now().Add(time.Hour)), client.Record{"id": "a1", "collectionName": superuser.CollectionName})
	assert.ErrorIs(t, err, writeErr)
	assert.ErrorIs(t, store.Clear(), writeErr)
	assert.Len(t, sink.calls, 1)
}

func TestAppStore_OnChangeSeesProjection(t *testing.T) {
	base, err := NewLocalStore(context.Background(), storage.NewMemory(nil))
	require.NoError(t, err)
	projector := superuser.New()
	store := NewAppStore(base, projector)

	type observed struct {
		token      string
		projection client.Record
	}
	var events []observed
	unsubscribe := store.OnChange(func(token string, record client.Record) {
		events = append(events, observed{token: token, projection: projector.Get()})
	})

	tok := sign(t, time.Now().Add(time.Hour))
	admin := client.Record{"id": "a1", "collectionName": superuser.CollectionName}
	require.NoError(t, store.Save(tok, admin))
	require.NoError(t, store.Save(tok, client.Record{"id": "u1", "collectionName": "users"}))
	require.NoError(t, store.Clear())

	require.Len(t, events, 3)
	assert.Equal(t, tok, events[0].token)
	assert.Equal(t, admin, events[0].projection)
	assert.Equal(t, tok, events[1].token)
	assert.Nil(t, events[1].projection)
	assert.Equal(t, "", events[2].token)
	assert.Nil(t, events[2].projection)

	unsubscribe()
	require.NoError(t, store.Save(tok, admin))
	assert.Len(t, events, 3)
}
