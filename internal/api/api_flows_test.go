package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ember/internal/db"
)

func newAPITestApp(t *testing.T) *fiber.App {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "ember-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler := NewHandler(database, "0123456789abcdef0123456789abcdef", time.UTC, false)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

func apiJSONRequest(t *testing.T, app *fiber.App, method string, path string, authCookie string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeJSONBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()

	decoded := map[string]any{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return decoded
}

func registerAndExtractAuthCookie(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response := apiJSONRequest(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": "StrongPass1",
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}

	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Name + "=" + cookie.Value
		}
	}
	t.Fatalf("expected register response to set %s cookie", authCookieName)
	return ""
}

func createTestHabit(t *testing.T, app *fiber.App, authCookie string, payload map[string]any) uint {
	t.Helper()

	response := apiJSONRequest(t, app, http.MethodPost, "/api/habits", authCookie, payload)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected habit create status 201, got %d", response.StatusCode)
	}
	created := decodeJSONBody(t, response)
	id, ok := created["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("expected created habit id, got %#v", created)
	}
	return uint(id)
}

func TestHabitEntryStatsFlow(t *testing.T) {
	t.Parallel()

	app := newAPITestApp(t)
	authCookie := registerAndExtractAuthCookie(t, app, "flow@example.com")

	habitID := createTestHabit(t, app, authCookie, map[string]any{
		"name":          "Morning run",
		"frequency":     "weekly",
		"schedule_days": []int{1, 3, 5},
		"start_date":    "2025-01-06",
		"timezone":      "UTC",
	})

	// Monday June 2nd is a due day.
	logResponse := apiJSONRequest(t, app, http.MethodPost,
		habitEntriesPath(habitID), authCookie,
		map[string]any{"date": "2025-06-02", "status": "done"})
	if logResponse.StatusCode != http.StatusCreated {
		t.Fatalf("expected entry status 201, got %d", logResponse.StatusCode)
	}
	entry := decodeJSONBody(t, logResponse)
	if entry["completed"] != true {
		t.Fatalf("expected completed entry, got %#v", entry)
	}
	if entry["percent_complete"] != float64(100) {
		t.Fatalf("expected defaulted percent 100, got %#v", entry["percent_complete"])
	}

	// Logging the same day again conflicts.
	conflictResponse := apiJSONRequest(t, app, http.MethodPost,
		habitEntriesPath(habitID), authCookie,
		map[string]any{"date": "2025-06-02", "status": "not_done"})
	conflictResponse.Body.Close()
	if conflictResponse.StatusCode != http.StatusConflict {
		t.Fatalf("expected duplicate entry status 409, got %d", conflictResponse.StatusCode)
	}

	// Tuesday is not on the Mon/Wed/Fri schedule.
	offScheduleResponse := apiJSONRequest(t, app, http.MethodPost,
		habitEntriesPath(habitID), authCookie,
		map[string]any{"date": "2025-06-03", "status": "done"})
	offScheduleResponse.Body.Close()
	if offScheduleResponse.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected off-schedule status 422, got %d", offScheduleResponse.StatusCode)
	}

	statsResponse := apiJSONRequest(t, app, http.MethodGet, habitPath(habitID)+"/stats", authCookie, nil)
	if statsResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected stats status 200, got %d", statsResponse.StatusCode)
	}
	stats := decodeJSONBody(t, statsResponse)
	if _, exists := stats["completion_rate"]; !exists {
		t.Fatalf("expected stats to include completion_rate, got %#v", stats)
	}

	overviewResponse := apiJSONRequest(t, app, http.MethodGet, "/api/stats/overview", authCookie, nil)
	if overviewResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected overview status 200, got %d", overviewResponse.StatusCode)
	}
	overview := decodeJSONBody(t, overviewResponse)
	if _, exists := overview["momentum"]; !exists {
		t.Fatalf("expected overview to include momentum, got %#v", overview)
	}
}

func TestHabitRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	app := newAPITestApp(t)

	response := apiJSONRequest(t, app, http.MethodGet, "/api/habits", "", nil)
	response.Body.Close()
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthenticated status 401, got %d", response.StatusCode)
	}
}

func TestHabitLookupRejectsBadTargets(t *testing.T) {
	t.Parallel()

	app := newAPITestApp(t)
	authCookie := registerAndExtractAuthCookie(t, app, "lookup@example.com")

	malformed := apiJSONRequest(t, app, http.MethodGet, "/api/habits/abc", authCookie, nil)
	malformed.Body.Close()
	if malformed.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected malformed habit id status 400, got %d", malformed.StatusCode)
	}

	zero := apiJSONRequest(t, app, http.MethodGet, "/api/habits/0", authCookie, nil)
	zero.Body.Close()
	if zero.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected zero habit id status 400, got %d", zero.StatusCode)
	}

	// A well-formed id with no habit behind it must refuse the entry, not
	// record it against nothing.
	missing := apiJSONRequest(t, app, http.MethodPost, "/api/habits/999/entries", authCookie,
		map[string]any{"date": "2025-06-02", "status": "done"})
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected missing habit entry status 404, got %d", missing.StatusCode)
	}
}

func TestHabitOwnershipIsolation(t *testing.T) {
	t.Parallel()

	app := newAPITestApp(t)
	ownerCookie := registerAndExtractAuthCookie(t, app, "owner@example.com")
	otherCookie := registerAndExtractAuthCookie(t, app, "other@example.com")

	habitID := createTestHabit(t, app, ownerCookie, map[string]any{
		"name":       "Journaling",
		"frequency":  "daily",
		"start_date": "2025-01-01",
		"timezone":   "UTC",
	})

	response := apiJSONRequest(t, app, http.MethodGet, habitPath(habitID), otherCookie, nil)
	response.Body.Close()
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected foreign habit status 404, got %d", response.StatusCode)
	}

	entryResponse := apiJSONRequest(t, app, http.MethodPost, habitEntriesPath(habitID), otherCookie,
		map[string]any{"date": "2025-06-02", "status": "done"})
	entryResponse.Body.Close()
	if entryResponse.StatusCode != http.StatusNotFound {
		t.Fatalf("expected foreign habit entry status 404, got %d", entryResponse.StatusCode)
	}
}

func TestRegisterValidationAndConflict(t *testing.T) {
	t.Parallel()

	app := newAPITestApp(t)

	shortPassword := apiJSONRequest(t, app, http.MethodPost, "/api/auth/register", "",
		map[string]any{"email": "weak@example.com", "password": "short"})
	shortPassword.Body.Close()
	if shortPassword.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected short password status 400, got %d", shortPassword.StatusCode)
	}

	registerAndExtractAuthCookie(t, app, "taken@example.com")

	duplicate := apiJSONRequest(t, app, http.MethodPost, "/api/auth/register", "",
		map[string]any{"email": "Taken@Example.com", "password": "StrongPass1"})
	duplicate.Body.Close()
	if duplicate.StatusCode != http.StatusConflict {
		t.Fatalf("expected duplicate email status 409, got %d", duplicate.StatusCode)
	}
}

func habitPath(habitID uint) string {
	return fmt.Sprintf("/api/habits/%d", habitID)
}

func habitEntriesPath(habitID uint) string {
	return habitPath(habitID) + "/entries"
}
