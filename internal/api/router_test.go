package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/service"
	"github.com/eventdesk/reservations/internal/infrastructure/db/memory"
	"github.com/eventdesk/reservations/internal/infrastructure/http/handlers"
)

type fixture struct {
	e     *echo.Echo
	store *memory.Store
	event domain.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	store := memory.New()

	host := store.AddActor("Acme", "host@example.com", "hostpw", domain.RoleHost)
	store.AddActor("Alice", "alice@example.com", "alicepw", domain.RoleAttendee)
	ev := store.AddEvent(host.ID, "Career fair", time.Date(2030, 4, 1, 9, 0, 0, 0, time.UTC))
	store.AddEvent(host.ID, "Old fair", time.Date(2020, 4, 1, 9, 0, 0, 0, time.UTC))

	tokens, err := service.NewTokenService("test-secret", 0)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	e := NewRouter(Dependencies{
		Log:          log,
		Gate:         service.NewGate(tokens),
		Auth:         service.NewAuthService(store, tokens, nil, log),
		Catalog:      service.NewCatalogService(store, log),
		Reservations: service.NewReservationService(store, nil, log),
		Health:       handlers.NewHealthHandler(map[string]handlers.Check{"store": handlers.StoreCheck(store)}),
		Registry:     prometheus.NewRegistry(),
	})
	return &fixture{e: e, store: store, event: ev}
}

func (f *fixture) do(method, target, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, body := f.do(http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	return body["token"].(string)
}

func TestRouter_ReservationFlow(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice@example.com", "alicepw")
	target := `{"event_id":` + jsonInt(f.event.ID) + `,"reserve":"true"}`

	_, body := f.do(http.MethodPost, "/api/users/reserve", target, token)
	if body["outcome"] != "OK" {
		t.Fatalf("first reserve: %+v", body)
	}
	_, body = f.do(http.MethodPost, "/api/users/reserve", target, token)
	if body["outcome"] != "ALREADY_RESERVED" || body["code"] != float64(501) {
		t.Fatalf("second reserve: %+v", body)
	}

	cancel := strings.Replace(target, `"true"`, `"false"`, 1)
	_, body = f.do(http.MethodPost, "/api/users/reserve", cancel, token)
	if body["outcome"] != "OK" {
		t.Fatalf("cancel: %+v", body)
	}
	rec, body := f.do(http.MethodPost, "/api/users/reserve", cancel, token)
	if rec.Code != http.StatusOK || body["outcome"] != "NOT_RESERVED_CANNOT_CANCEL" {
		t.Fatalf("second cancel: %d %+v", rec.Code, body)
	}
}

func TestRouter_TokenInJSONBody(t *testing.T) {
	f := newFixture(t)
	attendee := f.login(t, "alice@example.com", "alicepw")
	host := f.login(t, "host@example.com", "hostpw")

	rec, body := f.do(http.MethodPost, "/api/users/reserve",
		`{"token":"`+attendee+`","event_id":`+jsonInt(f.event.ID)+`,"reserve":"true"}`, "")
	if rec.Code != http.StatusOK || body["outcome"] != "OK" {
		t.Fatalf("reserve with body token: %d %+v", rec.Code, body)
	}

	rec, body = f.do(http.MethodPost, "/api/companies/events", `{"token":"`+host+`","from":"2025-01-01"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("host listing with body token: %d %s", rec.Code, rec.Body.String())
	}
	if events := body["events"].([]any); len(events) != 1 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestRouter_HostListing(t *testing.T) {
	f := newFixture(t)
	attendee := f.login(t, "alice@example.com", "alicepw")
	host := f.login(t, "host@example.com", "hostpw")

	f.do(http.MethodPost, "/api/users/reserve", `{"event_id":`+jsonInt(f.event.ID)+`,"reserve":"true"}`, attendee)

	rec, body := f.do(http.MethodPost, "/api/companies/events", `{"from":"2025-01-01"}`, host)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	events := body["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("unexpected events: %+v", events)
	}
	ev := events[0].(map[string]any)
	if ev["attendee_count"] != float64(1) || ev["number_of_attendees"] != float64(1) {
		t.Fatalf("unexpected attendance: %+v", ev)
	}
}

func TestRouter_ErrorMapping(t *testing.T) {
	f := newFixture(t)
	attendee := f.login(t, "alice@example.com", "alicepw")
	host := f.login(t, "host@example.com", "hostpw")

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{"bad login", http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"nope"}`, "", http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing from", http.MethodGet, "/api/users/events", "", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero limit", http.MethodGet, "/api/users/events?from=2025-01-01&limit=0", "", "", http.StatusBadRequest, "BAD_PAGINATION"},
		{"negative limit", http.MethodGet, "/api/users/events?from=2025-01-01&limit=-5", "", "", http.StatusBadRequest, "BAD_PAGINATION"},
		{"no token", http.MethodPost, "/api/users/reserve", `{"event_id":1,"reserve":"true"}`, "", http.StatusUnauthorized, "MISSING_CREDENTIALS"},
		{"bad token", http.MethodPost, "/api/users/reserve", `{"event_id":1,"reserve":"true"}`, "forged.token.value", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"host reserving", http.MethodPost, "/api/users/reserve", `{"event_id":1,"reserve":"true"}`, host, http.StatusForbidden, "FORBIDDEN_ROLE"},
		{"attendee listing host events", http.MethodPost, "/api/companies/events", `{"from":"2025-01-01"}`, attendee, http.StatusForbidden, "FORBIDDEN_ROLE"},
		{"unknown event", http.MethodPost, "/api/users/reserve", `{"event_id":999,"reserve":"true"}`, attendee, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := f.do(tt.method, tt.target, tt.body, tt.token)
			if rec.Code != tt.wantStatus || body["code"] != tt.wantCode {
				t.Fatalf("got %d %+v, want %d %s", rec.Code, body, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestRouter_PublicCatalog(t *testing.T) {
	f := newFixture(t)
	rec, body := f.do(http.MethodGet, "/api/users/events?from=2025-01-01", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	events := body["events"].([]any)
	if len(events) != 1 || events[0].(map[string]any)["start_date"] != "2030-04-01 09:00:00" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestRouter_Operations(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		rec, _ := f.do(http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
	}
}

func TestRouter_RequestIDIsUUID(t *testing.T) {
	f := newFixture(t)
	rec, _ := f.do(http.MethodGet, "/health", "", "")
	id := rec.Header().Get(echo.HeaderXRequestID)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", id, err)
	}
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
