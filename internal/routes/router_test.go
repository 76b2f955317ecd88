package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"npl-dashboard/internal/config"
	"npl-dashboard/internal/database"
	"npl-dashboard/internal/geo"
	"npl-dashboard/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("development"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const countiesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"NAME": "Cook", "COUNTYFP": "031", "POP_2020": 10000},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    }
  ]
}`

const tractsJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"GEOID": "17031000100", "COUNTYFP": "031", "POP_2020": 6000},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    }
  ]
}`

type fakeMailer struct {
	welcomes   []string
	resetCodes map[string]string
}

func (f *fakeMailer) SendResetCode(email, code string) error {
	if f.resetCodes == nil {
		f.resetCodes = make(map[string]string)
	}
	f.resetCodes[email] = code
	return nil
}

func (f *fakeMailer) SendWelcome(email, name, regionID string) error {
	f.welcomes = append(f.welcomes, email)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeMailer) {
	t.Helper()

	dir := t.TempDir()
	countiesPath := filepath.Join(dir, "counties.geojson")
	tractsPath := filepath.Join(dir, "tracts.geojson")
	require.NoError(t, os.WriteFile(countiesPath, []byte(countiesJSON), 0o644))
	require.NoError(t, os.WriteFile(tractsPath, []byte(tractsJSON), 0o644))

	cfg := &config.Config{
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "test.db")},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
		Seed: config.SeedConfig{
			StateCoordinatorEmail: "state@example.org",
			DefaultPassword:       "#NPLIL",
			LoginURL:              "http://localhost:5173",
		},
	}

	db, err := database.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.SeedStateCoordinator(cfg))

	index, err := geo.LoadIndex(countiesPath, tractsPath)
	require.NoError(t, err)

	m := &fakeMailer{}
	router, _ := SetupRoutes(cfg, db, index, m)
	return router, m
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginAndWhoAmI(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email":    "state@example.org",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := loginAs(t, router, "state@example.org", "#NPLIL")

	w = doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "state@example.org", me.User.Email)
	assert.Equal(t, "state", me.User.Role)

	w = doJSON(t, router, http.MethodGet, "/api/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRequiresPrivilegedRole(t *testing.T) {
	router, _ := newTestRouter(t)
	stateToken := loginAs(t, router, "state@example.org", "#NPLIL")

	// Unauthenticated.
	w := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"email": "x@example.org", "password": "pw", "role": "tract",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// State creates a tract coordinator.
	w = doJSON(t, router, http.MethodPost, "/api/register", stateToken, gin.H{
		"email":    "tract@example.org",
		"password": "pw123456",
		"role":     "tract",
		"tractid":  "17031000100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Duplicate email.
	w = doJSON(t, router, http.MethodPost, "/api/register", stateToken, gin.H{
		"email":    "tract@example.org",
		"password": "pw123456",
		"role":     "tract",
		"tractid":  "17031000100",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Tract coordinators cannot register anyone.
	tractToken := loginAs(t, router, "tract@example.org", "pw123456")
	w = doJSON(t, router, http.MethodPost, "/api/register", tractToken, gin.H{
		"email": "y@example.org", "password": "pw123456", "role": "tract",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTractDataEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	stateToken := loginAs(t, router, "state@example.org", "#NPLIL")

	// Zero default before any write; no auth required to read.
	w := doJSON(t, router, http.MethodGet, "/api/tract/17031000100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		TractData struct {
			TractID        string `json:"tract_id"`
			DiscipleMakers int    `json:"disciple_makers"`
		} `json:"tractData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, "17031000100", data.TractData.TractID)
	assert.Zero(t, data.TractData.DiscipleMakers)

	// Update requires a token.
	w = doJSON(t, router, http.MethodPost, "/api/tract/update", "", gin.H{
		"tractId": "17031000100", "discipleMakers": 5, "simpleChurches": 0, "legacyChurches": 0,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/tract/update", stateToken, gin.H{
		"tractId": "17031000100", "discipleMakers": 5, "simpleChurches": 1, "legacyChurches": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/tract/17031000100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, 5, data.TractData.DiscipleMakers)
}

func TestAssignCountyCoordinatorFlow(t *testing.T) {
	router, m := newTestRouter(t)
	stateToken := loginAs(t, router, "state@example.org", "#NPLIL")

	w := doJSON(t, router, http.MethodPost, "/api/county/assign-coordinator", stateToken, gin.H{
		"countyfp": "031", "name": "County Person", "email": "county@example.org",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"county@example.org"}, m.welcomes)

	w = doJSON(t, router, http.MethodGet, "/api/coordinator/county/031", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var coord struct {
		Coordinator *string `json:"coordinator"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &coord))
	require.NotNil(t, coord.Coordinator)
	assert.Equal(t, "county@example.org", *coord.Coordinator)

	// New coordinators log in with the default password and must reset.
	w = doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"email": "county@example.org", "password": "#NPLIL",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		MustResetPassword bool `json:"mustResetPassword"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.True(t, login.MustResetPassword)

	// County coordinators cannot assign county coordinators.
	countyToken := loginAs(t, router, "county@example.org", "#NPLIL")
	w = doJSON(t, router, http.MethodPost, "/api/county/assign-coordinator", countyToken, gin.H{
		"countyfp": "043", "name": "X", "email": "x@example.org",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPasswordResetEndpoints(t *testing.T) {
	router, m := newTestRouter(t)

	// Unknown email still reports success.
	w := doJSON(t, router, http.MethodPost, "/api/request-password-reset", "", gin.H{
		"email": "nobody@example.org",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/request-password-reset", "", gin.H{
		"email": "state@example.org",
	})
	require.Equal(t, http.StatusOK, w.Code)
	code := m.resetCodes["state@example.org"]
	require.Len(t, code, 6)

	w = doJSON(t, router, http.MethodPost, "/api/confirm-password-reset", "", gin.H{
		"email": "state@example.org", "code": "000000", "newPassword": "fresh-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/confirm-password-reset", "", gin.H{
		"email": "state@example.org", "code": code, "newPassword": "fresh-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	loginAs(t, router, "state@example.org", "fresh-pass")
}

func TestRegionEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/regions/counties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var counties struct {
		Regions []struct {
			Countyfp string `json:"countyfp"`
			Metrics  struct {
				Goal int `json:"goal"`
			} `json:"metrics"`
		} `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counties))
	require.Len(t, counties.Regions, 1)
	assert.Equal(t, "031", counties.Regions[0].Countyfp)
	assert.Equal(t, 1000, counties.Regions[0].Metrics.Goal)

	w = doJSON(t, router, http.MethodGet, "/api/regions/county/031/tracts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tracts struct {
		Regions []struct {
			ID string `json:"id"`
		} `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracts))
	require.Len(t, tracts.Regions, 1)
	assert.Equal(t, "17031000100", tracts.Regions[0].ID)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
