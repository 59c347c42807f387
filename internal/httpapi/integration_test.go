// integration_test.go contains an end-to-end test suite for the list API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"golist/internal/kv"
	"golist/internal/list"
	"golist/internal/metrics"
	"golist/internal/theme"
)

var (
	testServerURL string
	testCtx       = context.Background()
)

// TestMain starts the API over an in-memory store, or over Redis when
// REDIS_ADDR is set, then runs the tests.
func TestMain(m *testing.M) {
	var backend kv.Store = kv.NewMemory()
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rs, err := kv.DialRedis(testCtx, redisAddr, "golist-it-"+uuid.NewString())
		if err != nil {
			panic("failed to connect to redis: " + err.Error())
		}
		backend = rs
	}

	log := zap.NewNop()
	reg := prometheus.NewRegistry()
	store := list.NewStore(testCtx, list.NewGateway(backend), list.WithObserver(metrics.New(reg)))
	prefs := theme.NewPreferences(backend, theme.DefaultKey, log)
	handler := NewHandler(store, prefs, backend, log)
	srv := httptest.NewServer(NewRouter(handler, RouterConfig{CORSAllowedOrigins: "*", Gatherer: reg}))
	testServerURL = srv.URL

	code := m.Run()
	// clean up storage
	_ = store.ClearAll(testCtx)
	_ = backend.Delete(testCtx, theme.DefaultKey)
	srv.Close()
	_ = backend.Close()
	os.Exit(code)
}

// TestCRUDIntegration exercises Create, Read, Update, List, Delete and Clear.
func TestCRUDIntegration(t *testing.T) {
	client := http.DefaultClient
	mustClear(t, client)

	createFiles := []string{
		"create_item_request.json",
		"create_task_request.json",
		"create_note_request.json",
	}
	type createCase struct {
		file string
		req  list.CreateInput
		itm  list.Item
	}
	var cases []createCase
	for _, fn := range createFiles {
		data, err := os.ReadFile(filepath.Join("testdata", fn))
		if err != nil {
			t.Fatalf("reading %s: %v", fn, err)
		}
		var req list.CreateInput
		if err := json.Unmarshal(data, &req); err != nil {
			t.Fatalf("unmarshal %s: %v", fn, err)
		}
		cases = append(cases, createCase{file: fn, req: req})
	}

	// CREATE
	for i := range cases {
		data, _ := os.ReadFile(filepath.Join("testdata", cases[i].file))
		resp, err := client.Post(testServerURL+"/items", "application/json", bytes.NewReader(data))
		if err != nil {
			t.Fatalf("POST /items (%s) error: %v", cases[i].file, err)
		}
		if resp.StatusCode != http.StatusCreated {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("POST /items (%s) status %d, body: %s", cases[i].file, resp.StatusCode, body)
		}
		var out list.Item
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode created (%s): %v", cases[i].file, err)
		}
		resp.Body.Close()
		if out.ID == "" {
			t.Fatalf("empty ID for %s", cases[i].file)
		}
		if loc := resp.Header.Get("Location"); loc != "/items/"+out.ID {
			t.Errorf("Location header %q for %s", loc, out.ID)
		}
		if out.Title != cases[i].req.Title || out.Subtitle != cases[i].req.Subtitle {
			t.Errorf("created %+v from %+v", out, cases[i].req)
		}
		if out.UpdatedAt != nil {
			t.Errorf("new item %s has updatedAt", out.ID)
		}
		cases[i].itm = out
	}

	// READ each
	for _, c := range cases {
		got := getItem(t, client, c.itm.ID, http.StatusOK)
		if got.ID != c.itm.ID {
			t.Errorf("expected ID %s, got %s", c.itm.ID, got.ID)
		}
	}

	// UPDATE first item
	updData, err := os.ReadFile(filepath.Join("testdata", "update_item_request.json"))
	if err != nil {
		t.Fatalf("reading update payload: %v", err)
	}
	targetID := cases[0].itm.ID
	resp := do(t, client, http.MethodPut, "/items/"+targetID, updData)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("PUT /items/%s status %d, body: %s", targetID, resp.StatusCode, body)
	}
	updatedList := decodeItems(t, resp)
	if len(updatedList) != len(cases) || updatedList[0].ID != targetID {
		t.Fatalf("unexpected collection after update: %+v", updatedList)
	}

	// VERIFY update via GET
	after := getItem(t, client, targetID, http.StatusOK)
	if after.Subtitle != "2%" {
		t.Errorf("update not applied: %+v", after)
	}
	if after.UpdatedAt == nil || after.UpdatedAt.Before(after.CreatedAt) {
		t.Errorf("updatedAt not stamped: created %s, updated %v", after.CreatedAt, after.UpdatedAt)
	}
	if !after.CreatedAt.Equal(cases[0].itm.CreatedAt) {
		t.Errorf("createdAt changed: %s -> %s", cases[0].itm.CreatedAt, after.CreatedAt)
	}

	// LIST all, in insertion order, also after re-reading storage
	for _, path := range []string{"/items", "/items?reload=1"} {
		listed := decodeItems(t, do(t, client, http.MethodGet, path, nil))
		if len(listed) != len(cases) {
			t.Fatalf("GET %s: expected %d items, got %d", path, len(cases), len(listed))
		}
		for i := range cases {
			if listed[i].ID != cases[i].itm.ID {
				t.Errorf("GET %s: position %d holds %s, want %s", path, i, listed[i].ID, cases[i].itm.ID)
			}
		}
	}

	// DELETE all but the last, twice each
	for _, c := range cases[:len(cases)-1] {
		for range 2 {
			resp := do(t, client, http.MethodDelete, "/items/"+c.itm.ID, nil)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("DELETE /items/%s status %d", c.itm.ID, resp.StatusCode)
			}
			resp.Body.Close()
		}
		getItem(t, client, c.itm.ID, http.StatusNotFound)
	}

	// CLEAR
	mustClear(t, client)
	final := decodeItems(t, do(t, client, http.MethodGet, "/items?reload=1", nil))
	if len(final) != 0 {
		t.Errorf("expected 0 items after clear, got %d", len(final))
	}
}

// TestThemeIntegration stores and resolves the theme preference.
func TestThemeIntegration(t *testing.T) {
	client := http.DefaultClient

	var got ThemeResponse
	resp := do(t, client, http.MethodGet, "/theme?prefers=dark", nil)
	decodeJSON(t, resp, &got)
	if got.Theme != theme.System || got.ActualTheme != theme.Dark {
		t.Errorf("default theme: %+v", got)
	}

	resp = do(t, client, http.MethodPut, "/theme", []byte(`{"theme":"light"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /theme status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = do(t, client, http.MethodGet, "/theme?prefers=dark", nil)
	decodeJSON(t, resp, &got)
	if got.Theme != theme.Light || got.ActualTheme != theme.Light {
		t.Errorf("stored theme: %+v", got)
	}

	resp = do(t, client, http.MethodPut, "/theme", []byte(`{"theme":"system"}`))
	resp.Body.Close()
}

// TestOperationalEndpoints checks health and metrics.
func TestOperationalEndpoints(t *testing.T) {
	client := http.DefaultClient

	resp := do(t, client, http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status %d", resp.StatusCode)
	}
	resp.Body.Close()

	mustClear(t, client)
	resp = do(t, client, http.MethodGet, "/metrics", nil)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Contains(body, []byte(`golist_store_operations_total{op="clear_all",result="ok"}`)) {
		t.Errorf("metrics missing clear_all counter:\n%s", body)
	}
}

func do(t *testing.T, client *http.Client, method, path string, body []byte) *http.Response {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, testServerURL+path, rd)
	if err != nil {
		t.Fatalf("creating %s request: %v", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s error: %v", method, path, err)
	}
	return resp
}

func getItem(t *testing.T, client *http.Client, id string, wantStatus int) list.Item {
	t.Helper()
	resp := do(t, client, http.MethodGet, "/items/"+id, nil)
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET /items/%s status %d, want %d", id, resp.StatusCode, wantStatus)
	}
	var it list.Item
	if wantStatus == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
			t.Fatalf("decode GET %s: %v", id, err)
		}
	}
	return it
}

func decodeItems(t *testing.T, resp *http.Response) []list.Item {
	t.Helper()
	var items []list.Item
	decodeJSON(t, resp, &items)
	return items
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", resp.Request.URL.Path, err)
	}
}

func mustClear(t *testing.T, client *http.Client) {
	t.Helper()
	resp := do(t, client, http.MethodDelete, "/items", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE /items status %d", resp.StatusCode)
	}
}
