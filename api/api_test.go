package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsaacT30/airport-console/core/auth/session"
)

func newTestStore(t *testing.T) *session.FileStore {
	t.Helper()
	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	return store
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.FileStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newTestStore(t)
	client, err := NewClient(ClientConfig{
		AuthURL: server.URL,
		OpsURL:  server.URL,
		Timeout: 5 * time.Second,
		Store:   store,
	})
	require.NoError(t, err)
	return client, store
}

func TestAuthLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "amelia", body["username"])
		assert.Equal(t, "hunter2", body["password"])

		json.NewEncoder(w).Encode(map[string]string{
			"access":  "token-a",
			"refresh": "token-r",
		})
	})

	client, _ := newTestClient(t, mux)

	grant, err := client.Auth.Login(context.Background(), "amelia", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "token-a", grant.Access)
	assert.Equal(t, "token-r", grant.Refresh)
	assert.Nil(t, grant.User)
}

func TestAuthLoginRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid credentials"})
	})

	client, _ := newTestClient(t, mux)

	_, err := client.Auth.Login(context.Background(), "amelia", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestAuthMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(MePath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-a", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":       7,
			"username": "amelia",
			"role":     "operador",
		})
	})

	client, store := newTestClient(t, mux)
	require.NoError(t, store.SetTokenPair(context.Background(), "token-a", "token-r"))

	identity, err := client.Auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "amelia", identity.Username)
	assert.Equal(t, session.RoleOperator, session.ResolveRole(identity))
}

func TestResourceListEnveloped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(FlightsPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "LAX", r.URL.Query().Get("destination"))
		json.NewEncoder(w).Encode(map[string]any{
			"count": 2,
			"next":  "/api/flights/?page=2",
			"results": []map[string]any{
				{"id": 1, "number": "AC101"},
				{"id": 2, "number": "AC205"},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	flights, page, err := client.Flights.List(context.Background(), url.Values{"destination": {"LAX"}})
	require.NoError(t, err)
	require.Len(t, flights, 2)
	assert.Equal(t, "AC101", flights[0].Number)
	require.NotNil(t, page)
	assert.Equal(t, 2, page.Count)
}

func TestResourceListBareArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(AirlinesPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 3, "name": "Aerolineas del Sur", "code": "ASU"},
		})
	})

	client, _ := newTestClient(t, mux)

	airlines, page, err := client.Airlines.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, airlines, 1)
	assert.Equal(t, "ASU", airlines[0].Code)
	assert.Nil(t, page)
}

func TestResourceGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(FlightsPath+"42/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "number": "AC930"})
	})

	client, _ := newTestClient(t, mux)

	flight, err := client.Flights.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), flight.ID)
	assert.Equal(t, "AC930", flight.Number)
}

func TestResourceCreate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(BookingsPath, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var in Booking
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 11
		in.Status = "confirmed"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	})

	client, _ := newTestClient(t, mux)

	booking, err := client.Bookings.Create(context.Background(), Booking{FlightID: 42, PassengerID: 7, Seat: "12A"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), booking.ID)
	assert.Equal(t, "confirmed", booking.Status)
	assert.Equal(t, "12A", booking.Seat)
}

func TestResourcePatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(FlightsPath+"42/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)

		var fields map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "delayed", fields["status"])
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "number": "AC930", "status": "delayed"})
	})

	client, _ := newTestClient(t, mux)

	flight, err := client.Flights.Patch(context.Background(), 42, map[string]any{"status": "delayed"})
	require.NoError(t, err)
	assert.Equal(t, "delayed", flight.Status)
}

func TestResourceDelete(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc(AirportsPath+"9/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, mux)

	require.NoError(t, client.Airports.Delete(context.Background(), 9))
	assert.True(t, deleted)
}

func TestSharedRenewalAcrossServices(t *testing.T) {
	exchanges := 0
	mux := http.NewServeMux()
	mux.HandleFunc(RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh"])
		json.NewEncoder(w).Encode(map[string]string{"access": "access-2"})
	})
	mux.HandleFunc(FlightsPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "number": "AC101"}})
	})

	client, store := newTestClient(t, mux)
	ctx := context.Background()
	require.NoError(t, store.SetTokenPair(ctx, "stale", "refresh-1"))

	flights, _, err := client.Flights.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, 1, exchanges)

	access, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", access)
}
