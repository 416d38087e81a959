package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crewroster-service/internal/domain/entity"
	"crewroster-service/internal/interface/handlers"
	"crewroster-service/internal/interface/repository"
	"crewroster-service/internal/usecase"
	"crewroster-service/pkg/logger"
	"crewroster-service/pkg/metrics"
	"crewroster-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.NewMetrics("handlers_test")

const testAdminToken = "admin-secret"

const parserResponse = `{
	"2025-05-20": {
		"duty": "FlD",
		"check_in": "0600",
		"check_out": "!1615",
		"flights": [
			{"flight_num": "DY100", "departure": "OSL", "arrival": "BGO",
			 "dep_time": "0700", "arr_time": "0800"},
			{"flight_num": "DH/DY623", "departure": "BGO",
			 "dep_time": "0900"}
		],
		"time_limits": {"FDP": "08:10", "FT": "01:00"},
		"info": [],
		"hotel": [],
		"crew": {"cockpit": ["16704 Pilot One"], "cabin": []},
		"crew_ground_event": []
	}
}`

type testEnv struct {
	router  *chi.Mux
	token   string
	userID  string
	dataDir string
}

func setup(t *testing.T, parserStatus int, parserBody string) testEnv {
	t.Helper()

	parser := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(parserStatus)
		w.Write([]byte(parserBody))
	}))
	t.Cleanup(parser.Close)

	log := logger.NewNop()
	dataDir := t.TempDir()
	rosterRepo := repository.NewFileRosterRepository(dataDir, log)
	scheduleRepo := repository.NewScheduleAPIRepository(parser.URL, 5*time.Second, log)
	userRepo := repository.NewFileUserRepository(dataDir)

	manager := usecase.NewRosterManager(scheduleRepo, rosterRepo, testMetrics, log)
	users := usecase.NewUserService(userRepo, "test-secret", time.Hour, log)

	router := chi.NewRouter()
	handlers.RegisterRoutes(router,
		handlers.NewUserHandler(users, log),
		handlers.NewRosterHandler(manager, log),
		users,
		testAdminToken,
	)

	env := testEnv{router: router, dataDir: dataDir}
	env.userID, env.token = registerAndLogin(t, router, "crew@example.com")
	return env
}

func registerAndLogin(t *testing.T, router *chi.Mux, email string) (userID, token string) {
	t.Helper()
	creds := fmt.Sprintf(`{"email":%q,"password":"password123"}`, email)

	rec := doJSON(t, router, http.MethodPost, "/api/users/register", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.ID)

	rec = doJSON(t, router, http.MethodPost, "/api/users/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	return registered.ID, login.Token
}

func doJSON(t *testing.T, router *chi.Mux, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doUpload(t *testing.T, router *chi.Mux, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "may.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/roster/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func adminDelete(t *testing.T, router *chi.Mux, adminToken string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/rosters", nil)
	if adminToken != "" {
		req.Header.Set("X-Admin-Token", adminToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type rosterDayPayload struct {
	entity.RosterDay
	DutyCategory string `json:"duty_category"`
	CrewParsed   struct {
		Cockpit []utils.CrewMember `json:"cockpit"`
		Cabin   []utils.CrewMember `json:"cabin"`
	} `json:"crew_parsed"`
	CheckOutParsed    *utils.RosterTime `json:"check_out_parsed"`
	TimeLimitsOrdered []utils.TimeLimit `json:"time_limits_ordered"`
}

type rosterResponse struct {
	Days  []rosterDayPayload `json:"days"`
	Saved *bool              `json:"saved"`
}

func getRoster(t *testing.T, env testEnv) rosterResponse {
	t.Helper()
	rec := doJSON(t, env.router, http.MethodGet, "/api/roster", env.token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp rosterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestImportGetClearFlow(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusOK, parserResponse)

	// Import.
	rec := doUpload(t, env.router, env.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var imported rosterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	require.Len(t, imported.Days, 1)
	assert.Equal(t, "2025-05-20", imported.Days[0].Date)
	assert.Equal(t, "flight", imported.Days[0].DutyCategory)
	require.NotNil(t, imported.Saved)
	assert.True(t, *imported.Saved)
	require.Len(t, imported.Days[0].Flights, 2)
	assert.Equal(t, "DY100", imported.Days[0].Flights[0].FlightNum)

	// The merged roster is readable back.
	fetched := getRoster(t, env)
	require.Len(t, fetched.Days, 1)
	assert.Equal(t, "2025-05-20", fetched.Days[0].Date)

	// Clear.
	rec = doJSON(t, env.router, http.MethodDelete, "/api/roster", env.token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, getRoster(t, env).Days)
}

func TestImport_responseCarriesDisplayData(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusOK, parserResponse)

	rec := doUpload(t, env.router, env.token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp rosterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 1)
	day := resp.Days[0]

	// Crew entries split into ID and name.
	require.Len(t, day.CrewParsed.Cockpit, 1)
	assert.Equal(t, "16704", day.CrewParsed.Cockpit[0].EmployeeID)
	assert.Equal(t, "Pilot One", day.CrewParsed.Cockpit[0].Name)

	// The "!" check-out prefix is decoded but the raw token survives.
	require.NotNil(t, day.CheckOutParsed)
	assert.Equal(t, "!1615", day.CheckOutParsed.Raw)
	assert.Equal(t, "1615", day.CheckOutParsed.Time)
	assert.True(t, day.CheckOutParsed.Flagged)

	// Codeshare flight numbers are split; plain ones are not annotated.
	var flights []struct {
		FlightNum string           `json:"flight_num"`
		Codeshare *utils.Codeshare `json:"codeshare"`
	}
	var raw struct {
		Days []struct {
			Flights json.RawMessage `json:"flights"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NoError(t, json.Unmarshal(raw.Days[0].Flights, &flights))
	require.Len(t, flights, 2)
	assert.Nil(t, flights[0].Codeshare)
	require.NotNil(t, flights[1].Codeshare)
	assert.Equal(t, "DH", flights[1].Codeshare.Operating)
	assert.Equal(t, "DY623", flights[1].Codeshare.Marketing)

	// Limits come back in display order regardless of map order.
	require.Len(t, day.TimeLimitsOrdered, 2)
	assert.Equal(t, utils.TimeLimit{Key: "FT", Value: "01:00"}, day.TimeLimitsOrdered[0])
	assert.Equal(t, utils.TimeLimit{Key: "FDP", Value: "08:10"}, day.TimeLimitsOrdered[1])
}

func TestImport_parserServerErrorIsBadGateway(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusInternalServerError, "parser blew up")

	rec := doUpload(t, env.router, env.token)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "500")
}

func TestImport_decodingErrorNamesField(t *testing.T) {
	t.Parallel()
	noCrew := `{"2025-05-20": {"duty": "FlD", "flights": [], "time_limits": {},
		"info": [], "hotel": [], "crew_ground_event": []}}`
	env := setup(t, http.StatusOK, noCrew)

	rec := doUpload(t, env.router, env.token)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "crew")
}

func TestImport_storageReadErrorIsInternal(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusOK, parserResponse)

	// Make the stored roster unreadable without being absent: a directory
	// where the file should be fails the read with neither ErrNotExist nor
	// a decode error.
	path := filepath.Join(env.dataDir, "roster_data_"+env.userID+".json")
	require.NoError(t, os.Mkdir(path, 0o700))

	rec := doUpload(t, env.router, env.token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "stored roster")
	assert.NotContains(t, rec.Body.String(), "parser")
}

func TestRosterEndpointsRequireAuth(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusOK, parserResponse)

	rec := doJSON(t, env.router, http.MethodGet, "/api/roster", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, env.router, http.MethodDelete, "/api/roster", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestImport_missingFilePart(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusOK, parserResponse)

	rec := doJSON(t, env.router, http.MethodPost, "/api/roster/import", env.token, "{}")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusOK, parserResponse)

	rec := doJSON(t, env.router, http.MethodPost, "/api/users/logout", env.token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, env.router, http.MethodPost, "/api/users/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminClearAllRosters(t *testing.T) {
	t.Parallel()
	env := setup(t, http.StatusOK, parserResponse)

	rec := doUpload(t, env.router, env.token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, getRoster(t, env).Days, 1)

	// Another user's session token must not reach the wipe.
	_, otherToken := registerAndLogin(t, env.router, "other@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/rosters", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, getRoster(t, env).Days, 1)

	// Wrong admin token is rejected too.
	rec = adminDelete(t, env.router, "not-the-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, getRoster(t, env).Days, 1)

	// The service credential clears everything.
	rec = adminDelete(t, env.router, testAdminToken)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, getRoster(t, env).Days)
}

func TestRequireAdminToken_disabledWhenUnset(t *testing.T) {
	t.Parallel()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := handlers.RequireAdminToken("")(next)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/rosters", nil)
	req.Header.Set("X-Admin-Token", "")
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
