package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ssf-backend/internal/app"
	"ssf-backend/internal/config"
	"ssf-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Count int `json:"count"`
	} `json:"metadata"`
	Error struct {
		Message    string            `json:"message"`
		StatusCode int               `json:"statusCode"`
		TraceID    string            `json:"traceId"`
		Fields     map[string]string `json:"fields"`
	} `json:"error"`
}

func setupApp(t *testing.T) (*fiber.App, *app.Runtime) {
	t.Helper()
	cfg := &config.Config{
		DatabaseURL:         filepath.Join(t.TempDir(), "ssf.db"),
		ContextID:           "ctx-http",
		SweepInterval:       time.Hour,
		StoragePollInterval: time.Hour,
		NotifyPermission:    "denied",
		ToastTTL:            time.Minute,
		Timezone:            "UTC",
		HealthAdminKey:      "k",
	}
	db, _, err := app.Connect(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	rt, err := app.New(context.Background(), cfg, app.Deps{DB: db, Metrics: metrics.New()})
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })
	return CreateApp(cfg, rt, db, nil), rt
}

func do(t *testing.T, a *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.Test(req)
	require.NoError(t, err)
	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func listingBody() map[string]interface{} {
	from := time.Now().UTC()
	return map[string]interface{}{
		"title":          "Veg biryani",
		"category":       "Meals",
		"quantity":       8,
		"unit":           "plates",
		"location":       "Main Canteen",
		"freshness":      "Hot",
		"availableFrom":  from.Format(time.RFC3339),
		"availableUntil": from.Add(3 * time.Hour).Format(time.RFC3339),
	}
}

func TestListings_Lifecycle(t *testing.T) {
	a, rt := setupApp(t)

	code, env := do(t, a, "POST", "/api/v1/listings", listingBody())
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created["id"].(string)
	assert.Equal(t, "available", created["status"])
	assert.Equal(t, 3.0, created["safeHours"])
	assert.Equal(t, "You", created["postedBy"])

	code, env = do(t, a, "GET", "/api/v1/listings?q=biryani", nil)
	require.Equal(t, http.StatusOK, code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 1, env.Metadata.Count)

	code, env = do(t, a, "POST", "/api/v1/listings/"+id+"/collect", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "error", env.Status)

	code, _ = do(t, a, "POST", "/api/v1/listings/"+id+"/claim", map[string]interface{}{"name": "Hostel B", "role": "Student"})
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, a, "POST", "/api/v1/listings/"+id+"/collect", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, a, "GET", "/api/v1/listings", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list, "collected listings are not active")

	code, env = do(t, a, "GET", "/api/v1/listings?status=all", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	code, env = do(t, a, "GET", "/api/v1/analytics", nil)
	require.Equal(t, http.StatusOK, code)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.InDelta(t, 2.8, report["totalKg"], 1e-9)
	assert.Equal(t, 8.0, report["totalServings"])

	code, _ = do(t, a, "DELETE", "/api/v1/listings/"+id, nil)
	assert.Equal(t, http.StatusConflict, code, "collected listings keep their impact")
	assert.Len(t, rt.Replica.Listings(), 1)

	code, env = do(t, a, "POST", "/api/v1/listings", listingBody())
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	code, _ = do(t, a, "DELETE", "/api/v1/listings/"+created["id"].(string), nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, a, "DELETE", "/api/v1/listings/"+created["id"].(string), nil)
	require.Equal(t, http.StatusOK, code, "removing a listing that is gone is not an error")
	require.Len(t, rt.Replica.Listings(), 1)
	assert.Equal(t, id, rt.Replica.Listings()[0].ID)
}

func TestListings_ValidationErrors(t *testing.T) {
	a, _ := setupApp(t)

	body := listingBody()
	body["quantity"] = 0
	body["unit"] = "bags"
	code, env := do(t, a, "POST", "/api/v1/listings", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error.Fields, "quantity")
	assert.Contains(t, env.Error.Fields, "unit")
	assert.NotEmpty(t, env.Error.TraceID)

	code, _ = do(t, a, "POST", "/api/v1/listings", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListings_PatchRejectsUnknownField(t *testing.T) {
	a, rt := setupApp(t)
	code, env := do(t, a, "POST", "/api/v1/listings", listingBody())
	require.Equal(t, http.StatusCreated, code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created["id"].(string)

	code, _ = do(t, a, "PATCH", "/api/v1/listings/"+id, map[string]interface{}{"price": 3})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, a, "PATCH", "/api/v1/listings/"+id, map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 5.0, rt.Replica.Listings()[0].Quantity)

	code, _ = do(t, a, "PATCH", "/api/v1/listings/lst_missing", map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListings_Categories(t *testing.T) {
	a, _ := setupApp(t)
	body := listingBody()
	do(t, a, "POST", "/api/v1/listings", body)
	body["category"] = "Snacks"
	do(t, a, "POST", "/api/v1/listings", body)

	code, env := do(t, a, "GET", "/api/v1/listings/categories", nil)
	require.Equal(t, http.StatusOK, code)
	var cats []string
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	assert.ElementsMatch(t, []string{"Meals", "Snacks"}, cats)
}

func TestSubscriptions_NotifyOnPublish(t *testing.T) {
	a, _ := setupApp(t)

	code, env := do(t, a, "POST", "/api/v1/subscriptions", map[string]interface{}{
		"name":      "Canteen",
		"locations": []string{"Main Canteen"},
	})
	require.Equal(t, http.StatusCreated, code)
	var sub map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, true, sub["enabled"])
	assert.Equal(t, true, sub["viaBrowserNotifications"])
	assert.Equal(t, "Student", sub["role"])

	code, env = do(t, a, "POST", "/api/v1/subscriptions", map[string]interface{}{
		"name":                    "Quiet",
		"viaBrowserNotifications": false,
	})
	require.Equal(t, http.StatusCreated, code)
	var quiet map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &quiet))
	assert.Equal(t, false, quiet["viaBrowserNotifications"], "explicit false is kept")

	do(t, a, "POST", "/api/v1/listings", listingBody())

	var toasts []map[string]interface{}
	require.Eventually(t, func() bool {
		code, env = do(t, a, "GET", "/api/v1/notifications", nil)
		return code == http.StatusOK && json.Unmarshal(env.Data, &toasts) == nil && len(toasts) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Surplus food available", toasts[0]["title"])

	code, _ = do(t, a, "PATCH", "/api/v1/subscriptions/"+sub["id"].(string), map[string]interface{}{"enabled": false})
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, a, "PATCH", "/api/v1/subscriptions/"+sub["id"].(string), map[string]interface{}{"role": "Dean"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEvents_ReminderAndLogSurplus(t *testing.T) {
	a, rt := setupApp(t)

	ended := time.Now().UTC().Add(-10 * time.Minute)
	code, env := do(t, a, "POST", "/api/v1/events", map[string]interface{}{
		"name":     "Hackathon dinner",
		"location": "Auditorium",
		"endAt":    ended.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, code)
	var ev map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &ev))
	id := ev["id"].(string)

	code, env = do(t, a, "GET", "/api/v1/events/reminders", nil)
	require.Equal(t, http.StatusOK, code)
	var rem map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rem))
	require.NotNil(t, rem["next"])
	assert.Equal(t, id, rem["next"].(map[string]interface{})["id"])

	code, env = do(t, a, "POST", "/api/v1/events/"+id+"/log-surplus", map[string]interface{}{
		"category": "Meals",
		"quantity": 4,
		"unit":     "kg",
	})
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	var l map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &l))
	assert.Equal(t, "Hackathon dinner", l["title"])
	assert.Equal(t, "Auditorium", l["location"])

	require.Len(t, rt.Replica.Events(), 1)
	assert.True(t, rt.Replica.Events()[0].Logged)

	code, env = do(t, a, "GET", "/api/v1/events/reminders", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &rem))
	assert.Nil(t, rem["next"])

	code, _ = do(t, a, "PATCH", "/api/v1/events/"+id, map[string]interface{}{"name": "renamed"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSettings_GetAndReplace(t *testing.T) {
	a, rt := setupApp(t)

	code, env := do(t, a, "GET", "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, code)
	var s map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, true, s["autoNotify"])

	s["autoNotify"] = false
	code, _ = do(t, a, "PUT", "/api/v1/settings", s)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, rt.Replica.Settings().AutoNotify)

	s["remindBeforeMinutes"] = -1
	code, _ = do(t, a, "PUT", "/api/v1/settings", s)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthAndMetrics(t *testing.T) {
	a, _ := setupApp(t)

	resp, err := a.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-Id"))
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "ctx-http", out["context"])

	resp, err = a.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "ssf_replica_reloads_total")
}

func TestCORS(t *testing.T) {
	a, _ := setupApp(t)

	req := httptest.NewRequest("GET", "/api/v1/settings", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err := a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("OPTIONS", "/api/v1/settings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err = a.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
