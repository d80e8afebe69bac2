package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	account "auction-site/internal/accountService"
	"auction-site/internal/alarm"
	bidding "auction-site/internal/biddingService"
	"auction-site/internal/events"
	"auction-site/internal/repository"
	"auction-site/internal/server"
	session "auction-site/internal/sessionService"
	"auction-site/services/auction/handler"
	"auction-site/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testSweepInterval = time.Minute

// TestEnv is a fully wired server over the in-memory store and a manual clock
type TestEnv struct {
	Router *gin.Engine
	Clock  *alarm.Manual
	Events *events.Recorder
}

// SetupTestRouter initializes the router with in-memory repository for integration testing.
func SetupTestRouter(t *testing.T) *TestEnv {
	gin.SetMode(gin.TestMode)

	store := repository.WithRetry(repository.NewMemoryRepo(), repository.DefaultMaxRetries)
	clock := alarm.NewManual(testStart)
	recorder := &events.Recorder{}

	sessions := session.NewSessionService(store, clock)
	registry := account.NewRegistry(store, clock, sessions, account.Options{
		SweepInterval: testSweepInterval,
		BcryptCost:    bcrypt.MinCost,
		Publisher:     recorder,
	})
	t.Cleanup(registry.Close)

	router := server.SetupRouter(handler.Services{
		Registry:       registry,
		SessionService: sessions,
		BiddingService: bidding.NewBiddingService(store, clock, recorder),
	})
	return &TestEnv{Router: router, Clock: clock, Events: recorder}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(helpers.SessionHeader, token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, token, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == http.StatusCreated {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}

// Data returns the data payload of a non-201 response
func Data[T any](t *testing.T, resp map[string]any) T {
	t.Helper()
	v, ok := resp["data"].(T)
	require.True(t, ok, "unexpected data payload: %#v", resp["data"])
	return v
}

// SeedSite creates a site with a one-minute session lifetime and a unit
// bid increment
func SeedSite(t *testing.T, env *TestEnv, name string, timezone int) {
	t.Helper()
	_, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, "/sites", "", map[string]any{
		"name":                       name,
		"timezone":                   timezone,
		"session_expiration_seconds": 60,
		"minimum_bid_increment":      "1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// SeedUser registers username on site and logs it in, returning its token
func SeedUser(t *testing.T, env *TestEnv, site, username string) string {
	t.Helper()
	creds := helpers.CredentialsRequest{Username: username, Password: "pw-" + username}

	_, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, fmt.Sprintf("/sites/%s/users", site), "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return Login(t, env, site, creds)
}

// Login returns a session token for creds
func Login(t *testing.T, env *TestEnv, site string, creds helpers.CredentialsRequest) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, fmt.Sprintf("/sites/%s/login", site), "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := Data[map[string]any](t, resp)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// SeedAuction lists an auction ending in one hour and returns its ID
func SeedAuction(t *testing.T, env *TestEnv, site, token, startingPrice string) int64 {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, env.Router, http.MethodPost, fmt.Sprintf("/sites/%s/auctions", site), token, map[string]any{
		"description":    "vintage lamp",
		"ends_on":        testStart.Add(time.Hour).Format(time.RFC3339),
		"starting_price": startingPrice,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(resp["id"].(float64))
}
