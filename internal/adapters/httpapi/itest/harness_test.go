package itest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/liftlog/liftlog-api/internal/adapters/httpapi"
	memcalorierepo "github.com/liftlog/liftlog-api/internal/adapters/memory/calorierepo"
	memclock "github.com/liftlog/liftlog-api/internal/adapters/memory/clock"
	memexerciserepo "github.com/liftlog/liftlog-api/internal/adapters/memory/exerciserepo"
	memidempotency "github.com/liftlog/liftlog-api/internal/adapters/memory/idempotency"
	memlocationrepo "github.com/liftlog/liftlog-api/internal/adapters/memory/locationrepo"
	memprofilerepo "github.com/liftlog/liftlog-api/internal/adapters/memory/profilerepo"
	memtemplaterepo "github.com/liftlog/liftlog-api/internal/adapters/memory/templaterepo"
	memworkoutrepo "github.com/liftlog/liftlog-api/internal/adapters/memory/workoutrepo"
	pgcalorierepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/calorierepo"
	pgexerciserepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/exerciserepo"
	pgidempotency "github.com/liftlog/liftlog-api/internal/adapters/postgres/idempotency"
	pglocationrepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/locationrepo"
	pgprofilerepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/profilerepo"
	pgtemplaterepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/templaterepo"
	postgres_testutil "github.com/liftlog/liftlog-api/internal/adapters/postgres/testutil"
	pgworkoutrepo "github.com/liftlog/liftlog-api/internal/adapters/postgres/workoutrepo"
	"github.com/liftlog/liftlog-api/internal/app/calories"
	"github.com/liftlog/liftlog-api/internal/app/exercises"
	"github.com/liftlog/liftlog-api/internal/app/locations"
	"github.com/liftlog/liftlog-api/internal/app/profiles"
	"github.com/liftlog/liftlog-api/internal/app/records"
	"github.com/liftlog/liftlog-api/internal/app/templates"
	"github.com/liftlog/liftlog-api/internal/app/workouts"
	calorierepoport "github.com/liftlog/liftlog-api/internal/ports/out/calorierepo"
	exerciserepoport "github.com/liftlog/liftlog-api/internal/ports/out/exerciserepo"
	idempotencyport "github.com/liftlog/liftlog-api/internal/ports/out/idempotency"
	locationrepoport "github.com/liftlog/liftlog-api/internal/ports/out/locationrepo"
	profilerepoport "github.com/liftlog/liftlog-api/internal/ports/out/profilerepo"
	templaterepoport "github.com/liftlog/liftlog-api/internal/ports/out/templaterepo"
	workoutrepoport "github.com/liftlog/liftlog-api/internal/ports/out/workoutrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	const issuer = "itest-issuer"
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		exerciseRepo exerciserepoport.Repository
		workoutRepo  workoutrepoport.Repository
		templateRepo templaterepoport.Repository
		calorieRepo  calorierepoport.Repository
		profileRepo  profilerepoport.Repository
		locationRepo locationrepoport.Repository
		idemStore    idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		exerciseRepo = pgexerciserepo.NewRepo(pool)
		workoutRepo = pgworkoutrepo.NewRepo(pool)
		templateRepo = pgtemplaterepo.NewRepo(pool)
		calorieRepo = pgcalorierepo.NewRepo(pool)
		profileRepo = pgprofilerepo.NewRepo(pool)
		locationRepo = pglocationrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, issuer)
	case backendMemory:
		exerciseRepo = memexerciserepo.NewRepo()
		workoutRepo = memworkoutrepo.NewRepo()
		templateRepo = memtemplaterepo.NewRepo()
		calorieRepo = memcalorierepo.NewRepo()
		profileRepo = memprofilerepo.NewRepo()
		locationRepo = memlocationrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	exerciseSvc := exercises.NewService(exerciseRepo, clk, nil)
	if err := exerciseSvc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	recordSvc := records.NewService(workoutRepo, nil)
	profileSvc := profiles.NewService(profileRepo, clk)
	api := httpapi.NewServer(httpapi.Services{
		Exercises: exerciseSvc,
		Records:   recordSvc,
		Workouts:  workouts.NewService(workoutRepo, exerciseSvc, recordSvc, clk),
		Templates: templates.NewService(templateRepo, exerciseSvc, clk),
		Profiles:  profileSvc,
		Calories:  calories.NewService(calorieRepo, profileSvc, clk),
		Locations: locations.NewService(locationRepo, exerciseSvc, profileSvc, clk),
	}, idemStore, nil)
	api.Clock = clk

	// Integration tests use the dev auth middleware to stay fully local and deterministic.
	// We pass empty default subject to ensure requests MUST provide X-Debug-Subject, allowing
	// auth-failure coverage.
	authMW := httpapi.NewDevAuthMiddleware("")
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

// uniq keeps subjects and exercise names apart when tests share a database.
func uniq() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

// doJSON sends body as JSON. headers are key/value pairs.
func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
