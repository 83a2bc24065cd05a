// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "opledger/internal"
	"opledger/internal/domain"
)

// testApp is the global application instance for testing.
var testApp *app.Application

// testServer serves the application router.
var testServer *httptest.Server

// identityServer plays the external identity service: it maps known bearer
// tokens to identities and rejects everything else.
var identityServer *httptest.Server

var testIdentities = map[string]domain.Identity{
	"token-user-1": {ID: 1, Username: "alice"},
	"token-user-2": {ID: 2, Username: "bob"},
}

// TestMain is the entry point for this test binary, executed once before all tests.
func TestMain(m *testing.M) {
	identityServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		ident, ok := testIdentities[token]
		if !ok {
			http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ident)
	}))
	defer identityServer.Close()

	setupEnvVars()

	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		// No test database available in this environment.
		fmt.Fprintf(os.Stderr, "Skipping API integration tests: %v\n", err)
		os.Exit(0)
	}

	testServer = httptest.NewServer(testApp.HTTPHandler)
	defer testServer.Close()

	code := m.Run()

	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}

	os.Exit(code)
}

// setupEnvVars points the application at the fake identity server and the test database.
func setupEnvVars() {
	os.Setenv("AUTH_API_URL", identityServer.URL)
	if os.Getenv("SERVER_PORT") == "" {
		os.Setenv("SERVER_PORT", "8080")
	}
	if os.Getenv("DB_HOST") == "" {
		os.Setenv("DB_HOST", "localhost")
	}
	if os.Getenv("DB_PORT") == "" {
		os.Setenv("DB_PORT", "5432")
	}
	if os.Getenv("DB_USER") == "" {
		os.Setenv("DB_USER", "user")
	}
	if os.Getenv("DB_PASSWORD") == "" {
		os.Setenv("DB_PASSWORD", "password")
	}
	if os.Getenv("DB_NAME") == "" {
		os.Setenv("DB_NAME", "opledgerdb_test")
	}
	if os.Getenv("DB_SSLMODE") == "" {
		os.Setenv("DB_SSLMODE", "disable")
	}
}

// clearDatabase truncates all relevant tables so each test starts clean.
func clearDatabase(t *testing.T) {
	for _, table := range []string{"records", "balances"} {
		_, err := testApp.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table))
		require.NoError(t, err, "Failed to truncate table %s", table)
	}
}

// seedBalance creates a balance row for the given user directly through the repository.
func seedBalance(t *testing.T, userID int64, amount float64) {
	balance := domain.NewBalance(userID, amount)
	err := testApp.BalanceRepository.CreateBalance(context.Background(), testApp.DB, balance)
	require.NoError(t, err)
}

// makeRequest sends an HTTP request to the test server with the given bearer token.
// An empty token omits the Authorization header.
func makeRequest(t *testing.T, method, path, token string, body io.Reader) (*http.Response, string) {
	req, err := http.NewRequest(method, testServer.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(respBody)
}

// TestAuthGateIntegration tests the gate in front of the whole API surface.
func TestAuthGateIntegration(t *testing.T) {
	clearDatabase(t)
	seedBalance(t, 1, 1000)

	t.Run("MissingToken", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/v1/balance", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Unauthorized")
	})

	t.Run("InvalidToken", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/v1/balance", "bogus", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, "Unauthorized")
		// The identity service's message must not leak through.
		assert.NotContains(t, body, "invalid token")
	})

	t.Run("OwnershipMismatch", func(t *testing.T) {
		requestBody := `{"operationType":"deposit","amount":100,"userBalance":1000,"operationResponse":"success","userId":2}`
		resp, _ := makeRequest(t, "POST", "/api/v1/records", "token-user-1", strings.NewReader(requestBody))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("HealthIsUnauthenticated", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/health", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

// TestBalanceIntegration tests the balance endpoints.
func TestBalanceIntegration(t *testing.T) {
	clearDatabase(t)
	seedBalance(t, 1, 1000)

	t.Run("GetBalance", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/v1/balance", "token-user-1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var balance domain.Balance
		require.NoError(t, json.Unmarshal([]byte(body), &balance))
		assert.Equal(t, int64(1), balance.UserID)
		assert.Equal(t, float64(1000), balance.Amount)
	})

	t.Run("GetBalanceWithoutRow", func(t *testing.T) {
		// user 2 has no balance row
		resp, body := makeRequest(t, "GET", "/api/v1/balance", "token-user-2", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "Resource not found")
	})

	t.Run("UpdateBalance", func(t *testing.T) {
		resp, body := makeRequest(t, "PATCH", "/api/v1/balance", "token-user-1", strings.NewReader(`{"amount": 42.5}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var balance domain.Balance
		require.NoError(t, json.Unmarshal([]byte(body), &balance))
		assert.Equal(t, 42.5, balance.Amount)

		respGet, bodyGet := makeRequest(t, "GET", "/api/v1/balance", "token-user-1", nil)
		assert.Equal(t, http.StatusOK, respGet.StatusCode)
		require.NoError(t, json.Unmarshal([]byte(bodyGet), &balance))
		assert.Equal(t, 42.5, balance.Amount)
	})

	t.Run("UpdateBalanceWithoutRow", func(t *testing.T) {
		resp, _ := makeRequest(t, "PATCH", "/api/v1/balance", "token-user-2", strings.NewReader(`{"amount": 10}`))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("UpdateBalanceMissingAmount", func(t *testing.T) {
		resp, body := makeRequest(t, "PATCH", "/api/v1/balance", "token-user-1", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "amount is required")
	})
}

// TestRecordLifecycleIntegration walks a record through create, read, list, and
// soft delete, checking owner scoping along the way.
func TestRecordLifecycleIntegration(t *testing.T) {
	clearDatabase(t)

	createBody := `{"operationType":"deposit","amount":100,"userBalance":1000,"operationResponse":"success","userId":1}`
	resp, body := makeRequest(t, "POST", "/api/v1/records", "token-user-1", strings.NewReader(createBody))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Record
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "deposit", created.OperationType)
	assert.Equal(t, int64(1), created.UserID)
	assert.False(t, created.IsDeleted)
	assert.False(t, created.Date.IsZero())
	assert.True(t, decimal.NewFromInt(100).Equal(created.Amount))
	assert.True(t, decimal.NewFromInt(1000).Equal(created.UserBalance))

	recordPath := fmt.Sprintf("/api/v1/records/%d", created.ID)

	t.Run("OwnerCanRead", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", recordPath, "token-user-1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var record domain.Record
		require.NoError(t, json.Unmarshal([]byte(body), &record))
		assert.Equal(t, created.ID, record.ID)
	})

	t.Run("OtherUserGetsNotFound", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", recordPath, "token-user-2", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "Resource not found")
	})

	t.Run("ListIncludesRecord", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/v1/records", "token-user-1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Data  []domain.Record `json:"data"`
			Count int64           `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		assert.Equal(t, int64(1), list.Count)
		require.Len(t, list.Data, 1)
		assert.Equal(t, created.ID, list.Data[0].ID)
	})

	t.Run("SoftDelete", func(t *testing.T) {
		resp, _ := makeRequest(t, "DELETE", recordPath, "token-user-1", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		respGet, _ := makeRequest(t, "GET", recordPath, "token-user-1", nil)
		assert.Equal(t, http.StatusNotFound, respGet.StatusCode)

		respList, bodyList := makeRequest(t, "GET", "/api/v1/records", "token-user-1", nil)
		assert.Equal(t, http.StatusOK, respList.StatusCode)
		var list struct {
			Data  []domain.Record `json:"data"`
			Count int64           `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(bodyList), &list))
		assert.Equal(t, int64(0), list.Count)
		assert.Empty(t, list.Data)

		// The row stays persisted, only flagged.
		var stillThere int
		require.NoError(t, testApp.DB.Get(&stillThere,
			"SELECT COUNT(*) FROM records WHERE id = $1 AND is_deleted = TRUE", created.ID))
		assert.Equal(t, 1, stillThere)
	})

	t.Run("SecondDeleteIsIdempotent", func(t *testing.T) {
		resp, _ := makeRequest(t, "DELETE", recordPath, "token-user-1", nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

// TestRecordPaginationIntegration checks ordering, the page window, and the total count.
func TestRecordPaginationIntegration(t *testing.T) {
	clearDatabase(t)

	for i := 1; i <= 5; i++ {
		body := fmt.Sprintf(
			`{"operationType":"deposit","amount":%d,"userBalance":1000,"operationResponse":"op %d","userId":1}`, i, i)
		resp, _ := makeRequest(t, "POST", "/api/v1/records", "token-user-1", strings.NewReader(body))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		time.Sleep(5 * time.Millisecond) // distinct creation timestamps
	}
	// One record for another user must never show up in user 1's lists.
	otherBody := `{"operationType":"withdraw","amount":9,"userBalance":1,"operationResponse":"other","userId":2}`
	resp, _ := makeRequest(t, "POST", "/api/v1/records", "token-user-2", strings.NewReader(otherBody))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("NewestFirstWithTotalCount", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/v1/records?page=1&limit=2", "token-user-1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Data  []domain.Record `json:"data"`
			Count int64           `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		assert.Equal(t, int64(5), list.Count, "count ignores the page window")
		require.Len(t, list.Data, 2)
		assert.Equal(t, "op 5", list.Data[0].OperationResponse)
		assert.Equal(t, "op 4", list.Data[1].OperationResponse)
		for _, record := range list.Data {
			assert.Equal(t, int64(1), record.UserID)
		}
	})

	t.Run("SecondPage", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/v1/records?page=2&limit=2", "token-user-1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Data  []domain.Record `json:"data"`
			Count int64           `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		assert.Equal(t, int64(5), list.Count)
		require.Len(t, list.Data, 2)
		assert.Equal(t, "op 3", list.Data[0].OperationResponse)
		assert.Equal(t, "op 2", list.Data[1].OperationResponse)
	})

	t.Run("DefaultsApply", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/api/v1/records?page=0&limit=-3", "token-user-1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Data  []domain.Record `json:"data"`
			Count int64           `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		assert.Equal(t, int64(5), list.Count)
		assert.Len(t, list.Data, 5) // default limit 10 covers all five
	})
}
