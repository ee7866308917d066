package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"kankotri/internal/delivery"
	"kankotri/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_InsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Insert(ctx, Entry{Name: "Asha", Number: "+919876543210", Status: delivery.StatusSuccess, Message: "Message sent"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = s.Insert(ctx, Entry{Name: "Ravi", Number: "98", Status: delivery.StatusFailed, Message: "Invalid phone number"})
	require.NoError(t, err)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ravi", entries[0].Name, "newest first")
	assert.Equal(t, "Asha", entries[1].Name)
	assert.Equal(t, delivery.StatusSuccess, entries[1].Status)
	assert.WithinDuration(t, first.CreatedAt, entries[1].CreatedAt, time.Millisecond)

	entries, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[delivery.Status]int{delivery.StatusSuccess: 1, delivery.StatusFailed: 1}, counts)
}

func TestStore_RejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, Entry{Name: "Asha", Status: "PENDING"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = s.Insert(ctx, Entry{Name: "  ", Status: delivery.StatusError})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), Entry{Name: "Asha", Status: delivery.StatusSuccess})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHandler(t *testing.T) {
	s := openTestStore(t)
	ts := httptest.NewServer(Handler(s, nil))
	defer ts.Close()

	post := func(body string) *http.Response {
		resp, err := http.Post(ts.URL+Path, "application/json", bytes.NewBufferString(body))
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("valid entry is created", func(t *testing.T) {
		resp := post(`{"name":"Asha","number":"+919876543210","status":"SUCCESS","message":"Message sent"}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var e Entry
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Equal(t, "Asha", e.Name)
		assert.NotZero(t, e.ID)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		resp := post(`{"name":"Asha","status":"DONE"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		resp := post(`{"name":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list returns stored entries", func(t *testing.T) {
		resp, err := http.Get(ts.URL + Path + "?limit=5")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var entries []Entry
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
		require.Len(t, entries, 1)
		assert.Equal(t, delivery.StatusSuccess, entries[0].Status)
	})

	t.Run("bad limit", func(t *testing.T) {
		resp, err := http.Get(ts.URL + Path + "?limit=many")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("other methods", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+Path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestHandler_ReceivesHTTPSink(t *testing.T) {
	s := openTestStore(t)
	ts := httptest.NewServer(Handler(s, nil))
	defer ts.Close()

	sink := report.NewHTTPSink(ts.URL+Path, time.Second)
	err := sink.Send(context.Background(), report.Attempt{
		Name: "Ravi", Address: "+919812345678", Status: delivery.StatusFailed, Message: "Chat load timeout",
	})
	require.NoError(t, err)

	entries, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		ID: entries[0].ID, Name: "Ravi", Number: "+919812345678",
		Status: delivery.StatusFailed, Message: "Chat load timeout", CreatedAt: entries[0].CreatedAt,
	}, entries[0])
}
