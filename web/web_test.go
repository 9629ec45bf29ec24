package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"loctrack/database"
	"loctrack/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "web-test-secret"

func TestMain(m *testing.M) {
	os.Setenv("LOCTRACK_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.DEBUG)
	os.Exit(m.Run())
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", testSecret)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.InitDB(dbPath))
	t.Cleanup(func() {
		sqlDB, _ := database.GetDB().DB()
		sqlDB.Close()
	})

	engine, err := NewServer().initRouter()
	require.NoError(t, err)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("api-token", token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func register(t *testing.T, engine *gin.Engine, username string, terminal bool) string {
	t.Helper()
	w := doRequest(t, engine, http.MethodPost, "/api/v1/users/", "", gin.H{
		"username":    username,
		"password":    "pw1",
		"is_terminal": terminal,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := decodeBody(t, w)["jwt_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func myId(t *testing.T, engine *gin.Engine, token string) int {
	t.Helper()
	w := doRequest(t, engine, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	id, ok := decodeBody(t, w)["id"].(float64)
	require.True(t, ok)
	return int(id)
}

func TestRegisterLoginAndLocationLifecycle(t *testing.T) {
	engine := newTestEngine(t)

	aliceToken := register(t, engine, "alice", true)
	aliceId := myId(t, engine, aliceToken)

	// Login returns a token whose subject is the same account.
	w := doRequest(t, engine, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"username": "alice",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	loginToken, _ := decodeBody(t, w)["jwt_token"].(string)
	require.NotEmpty(t, loginToken)
	assert.Equal(t, aliceId, myId(t, engine, loginToken))

	// Posting a location stamps the caller as owner.
	w = doRequest(t, engine, http.MethodPost, "/api/v1/locations/", aliceToken, gin.H{
		"latitude":  1.0,
		"longitude": 2.0,
		"info":      "checkpoint",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	assert.Equal(t, float64(aliceId), created["owner_id"])
	locationId := int(created["id"].(float64))

	// Another terminal account may read but not mutate it.
	bobToken := register(t, engine, "bob", true)

	w = doRequest(t, engine, http.MethodPut, "/api/v1/locations/"+itoa(locationId), bobToken, gin.H{"info": "hijack"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "not the owner")

	w = doRequest(t, engine, http.MethodDelete, "/api/v1/locations/"+itoa(locationId), bobToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Permission denied", decodeBody(t, w)["error"])

	// The owner succeeds on the same requests.
	w = doRequest(t, engine, http.MethodPut, "/api/v1/locations/"+itoa(locationId), aliceToken, gin.H{"info": "updated"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated", decodeBody(t, w)["info"])

	w = doRequest(t, engine, http.MethodDelete, "/api/v1/locations/"+itoa(locationId), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	engine := newTestEngine(t)

	// Absent body answers with the schema error shape.
	w := doRequest(t, engine, http.MethodPost, "/api/v1/users/", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "_schema")

	// Missing fields answer with the error shape.
	w = doRequest(t, engine, http.MethodPost, "/api/v1/users/", "", gin.H{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "error")

	// Duplicate usernames are rejected and no second row is created.
	register(t, engine, "alice", false)
	w = doRequest(t, engine, http.MethodPost, "/api/v1/users/", "", gin.H{
		"username":    "alice",
		"password":    "other",
		"is_terminal": true,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "already exist")
}

func TestLoginFailures(t *testing.T) {
	engine := newTestEngine(t)
	register(t, engine, "alice", false)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/users/login", "", gin.H{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter a username and a password to sign in", decodeBody(t, w)["error"])

	w = doRequest(t, engine, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"username": "nobody",
		"password": "pw1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials.", decodeBody(t, w)["error"])

	w = doRequest(t, engine, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect password.", decodeBody(t, w)["error"])
}

func TestAuthenticationGate(t *testing.T) {
	engine := newTestEngine(t)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/locations/", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "token is not available")

	w = doRequest(t, engine, http.MethodGet, "/api/v1/locations/", "garbage", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Invalid token")

	claims := jwt.RegisteredClaims{
		Subject:   "1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/locations/", expired, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "Token expired")
}

func TestNonTerminalCannotPostLocation(t *testing.T) {
	engine := newTestEngine(t)
	token := register(t, engine, "viewer", false)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/locations/", token, gin.H{
		"latitude":  1.0,
		"longitude": 2.0,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "terminal")
}

func TestLocationsByDate(t *testing.T) {
	engine := newTestEngine(t)
	token := register(t, engine, "alice", true)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/locations/by-date", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No parameters provided", decodeBody(t, w)["error"])

	// Nothing posted yet: an empty window answers not-found.
	w = doRequest(t, engine, http.MethodGet, "/api/v1/locations/by-date?start_date=2020-01-01&end_date=2020-12-31", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, engine, http.MethodPost, "/api/v1/locations/", token, gin.H{
		"latitude":  1.0,
		"longitude": 2.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/locations/by-date?start_date=2020-01-01&end_date=2100-01-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var locations []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &locations))
	assert.Len(t, locations, 1)
}

func TestUserListExcludesPasswordHash(t *testing.T) {
	engine := newTestEngine(t)
	token := register(t, engine, "alice", false)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/users/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/999", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["error"])
}

func TestUserResponsesNestLocations(t *testing.T) {
	engine := newTestEngine(t)
	token := register(t, engine, "alice", true)
	id := myId(t, engine, token)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/locations/", token, gin.H{
		"latitude":  48.85,
		"longitude": 2.35,
		"info":      "paris",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/"+itoa(id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	locations, ok := body["locations"].([]any)
	require.True(t, ok, "expected a locations list in the user detail")
	require.Len(t, locations, 1)
	assert.Equal(t, "paris", locations[0].(map[string]any)["info"])

	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w), "locations")
}

func TestSelfServiceUpdateAndDelete(t *testing.T) {
	engine := newTestEngine(t)
	aliceToken := register(t, engine, "alice", true)
	bobToken := register(t, engine, "bob", false)

	w := doRequest(t, engine, http.MethodPut, "/api/v1/users/me", aliceToken, gin.H{"username": "alice2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice2", decodeBody(t, w)["username"])

	w = doRequest(t, engine, http.MethodPost, "/api/v1/locations/", aliceToken, gin.H{
		"latitude":  1.0,
		"longitude": 2.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Deleting the account removes its locations with it.
	w = doRequest(t, engine, http.MethodDelete, "/api/v1/users/me", aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/locations/", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var locations []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &locations))
	assert.Empty(t, locations)

	// The deleted account's token no longer resolves.
	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/me", aliceToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "user does not exist")
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
