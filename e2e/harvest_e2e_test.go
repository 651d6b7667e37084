//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"harvest-timer/internal/adapter/harvest"
	"harvest-timer/internal/domain"
	"harvest-timer/internal/usecase"
)

const spentDate = "2025-08-01"

var authHeaders = map[string]any{
	"Authorization":      map[string]any{"equalTo": "Bearer e2e-token"},
	"Harvest-Account-Id": map[string]any{"equalTo": "4242"},
}

func stub(t *testing.T, admin, method, path string, query map[string]string, status int, body any) {
	t.Helper()
	qp := map[string]any{}
	for k, v := range query {
		qp[k] = map[string]any{"equalTo": v}
	}
	mapping := map[string]any{
		"request": map[string]any{
			"method":          method,
			"urlPath":         path,
			"queryParameters": qp,
			"headers":         authHeaders,
		},
		"response": map[string]any{
			"status":   status,
			"jsonBody": body,
			"headers":  map[string]string{"Content-Type": "application/json"},
		},
	}
	raw, err := json.Marshal(mapping)
	if err != nil {
		t.Fatalf("marshal mapping: %v", err)
	}
	resp, err := http.Post(admin+"/__admin/mappings", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("register mapping %s %s: %v", method, path, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register mapping %s %s: status %d", method, path, resp.StatusCode)
	}
}

func page(key string, items []any, n, totalPages, totalEntries int) map[string]any {
	return map[string]any{
		key:             items,
		"per_page":      2,
		"page":          n,
		"total_pages":   totalPages,
		"total_entries": totalEntries,
	}
}

func entry(id int, running bool) map[string]any {
	return map[string]any{
		"id": id, "spent_date": spentDate, "hours": 0.75, "notes": nil, "is_running": running,
		"user": map[string]any{"id": 7}, "client": map[string]any{"id": 1, "name": "Acme"},
		"project": map[string]any{"id": 11, "name": "Site"}, "task": map[string]any{"id": 21, "name": "Design"},
	}
}

func TestTimerAgainstWireMock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "wiremock/wiremock:3.9.1",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor:   wait.ForHTTP("/__admin/mappings").WithPort("8080/tcp").WithStartupTimeout(90 * time.Second),
	}
	wm, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start wiremock container: %v", err)
	}
	t.Cleanup(func() { _ = wm.Terminate(context.Background()) })

	host, err := wm.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := wm.MappedPort(ctx, "8080/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	base := fmt.Sprintf("http://%s:%s", host, port.Port())

	stub(t, base, "GET", "/v2/users/me", nil, 200, map[string]any{"id": 7})
	stub(t, base, "GET", "/v2/users/7/project_assignments", map[string]string{"page": "1"}, 200,
		page("project_assignments", []any{
			map[string]any{"id": 1, "project": map[string]any{"id": 11, "name": "Site"}},
			map[string]any{"id": 2, "project": map[string]any{"id": 12, "name": "Ops"}},
		}, 1, 2, 3))
	stub(t, base, "GET", "/v2/users/7/project_assignments", map[string]string{"page": "2"}, 200,
		page("project_assignments", []any{
			map[string]any{"id": 3, "project": map[string]any{"id": 13, "name": "Infra"}},
		}, 2, 2, 3))
	stub(t, base, "GET", "/v2/projects/11/task_assignments", map[string]string{"is_active": "true"}, 200,
		page("task_assignments", []any{
			map[string]any{"id": 31, "project": map[string]any{"id": 11, "name": "Site"}, "task": map[string]any{"id": 21, "name": "Design"}},
		}, 1, 1, 1))
	for _, id := range []int{12, 13} {
		stub(t, base, "GET", fmt.Sprintf("/v2/projects/%d/task_assignments", id), map[string]string{"is_active": "true"}, 200,
			page("task_assignments", []any{}, 1, 0, 0))
	}
	stub(t, base, "GET", "/v2/time_entries", map[string]string{"user_id": "7", "from": spentDate, "to": spentDate}, 200,
		page("time_entries", []any{entry(100, false)}, 1, 1, 1))
	stub(t, base, "POST", "/v2/time_entries", nil, 201, entry(101, true))
	stub(t, base, "PATCH", "/v2/time_entries/100/restart", nil, 200, entry(100, true))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clock := func() time.Time { return time.Date(2025, 8, 1, 9, 0, 0, 0, time.Local) }
	client := harvest.NewClient(base, harvest.Credentials{Token: "e2e-token", AccountID: 4242}, logger,
		harvest.WithClock(clock), harvest.WithTimeout(10*time.Second))
	uc := &usecase.TimerUseCase{Log: logger, Harvest: client}

	projects, err := uc.Projects(ctx)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects across two pages, got %d", len(projects))
	}

	started, err := uc.Start(ctx, 11, 21, "", 0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !started.IsRunning || started.ID != 101 {
		t.Fatalf("unexpected started entry: %+v", started)
	}

	resumed, err := uc.Resume(ctx)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.ID != 100 || !resumed.IsRunning {
		t.Fatalf("unexpected resumed entry: %+v", resumed)
	}

	_, err = client.StopTimer(ctx, domain.TimeEntry{ID: 999})
	if !domain.IsDecodeError(err) {
		t.Fatalf("expected decode error for unmapped request, got %v", err)
	}
}
