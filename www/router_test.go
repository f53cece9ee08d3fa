package www

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"ordermate/config"
	"ordermate/engine"
	"ordermate/messaging"
	"ordermate/statcache"
	"ordermate/store"
)

// testServer spins up the full router over a temporary SQLite store,
// with messaging disabled and no redis.
func testServer(t *testing.T) (*httptest.Server, *store.DB) {
	t.Helper()

	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Messaging.Backend = "none"
	cfg.Seed.AutoSeed = false

	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	eng := engine.New(engine.Config{
		AppConfig: cfg,
		DB:        db,
		Stats:     statcache.NewManager(nil),
		MsgClient: messaging.NewClient(&cfg.Messaging),
		LogFunc:   func(string, ...any) {},
	})

	handler, stopWeb := NewRouter(eng)
	eng.Start()
	t.Cleanup(func() {
		stopWeb()
		eng.Stop()
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, db
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func seedCollection(t *testing.T, srv *httptest.Server, name string) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/"+name, map[string]any{"createSampleData": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed %s: status %d (%v)", name, resp.StatusCode, body)
	}
}

func TestSeedAndList(t *testing.T) {
	srv, _ := testServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/customers", map[string]any{"createSampleData": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["seeded"].(float64) != 5 {
		t.Errorf("seeded = %v, want 5", body["seeded"])
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/customers", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	items := body["items"].([]any)
	if len(items) != 5 {
		t.Errorf("items = %d, want 5", len(items))
	}
}

func TestViewFilterAndStats(t *testing.T) {
	srv, _ := testServer(t)
	seedCollection(t, srv, "customers")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/customers/view?status=vip", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	view := body["view"].(map[string]any)
	items := view["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("vip items = %d, want 2", len(items))
	}
	if view["total_items"].(float64) != 2 {
		t.Errorf("total_items = %v, want 2", view["total_items"])
	}

	// Stats always cover the full set, not the filtered view.
	stats := body["stats"].(map[string]any)
	if stats["total"].(float64) != 5 {
		t.Errorf("stats total = %v, want 5", stats["total"])
	}
	sums := stats["sums"].(map[string]any)
	if sums["total_spent"].(float64) != 8708.20 {
		t.Errorf("total_spent = %v, want 8708.20", sums["total_spent"])
	}
}

func TestViewSearchAndPaging(t *testing.T) {
	srv, _ := testServer(t)
	seedCollection(t, srv, "customers")

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/customers/view?q=JANE", nil)
	view := body["view"].(map[string]any)
	items := view["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("search items = %d, want 1", len(items))
	}

	// Out-of-range pages clamp instead of erroring.
	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/customers/view?page=99", nil)
	view = body["view"].(map[string]any)
	if view["current_page"].(float64) != 1 {
		t.Errorf("current_page = %v, want 1", view["current_page"])
	}
}

func TestPatchStatus(t *testing.T) {
	srv, db := testServer(t)
	seedCollection(t, srv, "customers")

	id := "507f1f77bcf86cd799439011" // John Doe, active
	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/api/customers/"+id, map[string]any{"status": "vip"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	// Write-through reaches the store.
	got, err := db.GetCustomer(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "vip" {
		t.Errorf("stored status = %q, want vip", got.Status)
	}

	// And the in-memory view reflects it.
	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/customers/view?status=vip", nil)
	view := body["view"].(map[string]any)
	if n := view["total_items"].(float64); n != 3 {
		t.Errorf("vip after patch = %v, want 3", n)
	}
}

func TestPatchUnknownID(t *testing.T) {
	srv, _ := testServer(t)
	seedCollection(t, srv, "customers")

	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/api/customers/nope", map[string]any{"status": "vip"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPatchRequiresSingleField(t *testing.T) {
	srv, _ := testServer(t)
	seedCollection(t, srv, "customers")

	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/api/customers/507f1f77bcf86cd799439011",
		map[string]any{"status": "vip", "location": "Mars"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPatchUnwritableField(t *testing.T) {
	srv, db := testServer(t)
	seedCollection(t, srv, "customers")

	id := "507f1f77bcf86cd799439011"
	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/api/customers/"+id, map[string]any{"email": "evil@example.com"})
	if resp.StatusCode == http.StatusOK {
		t.Fatal("expected failure for unwritable field")
	}
	got, _ := db.GetCustomer(id)
	if got.Email != "john@example.com" {
		t.Errorf("email = %q, should be untouched", got.Email)
	}
}

func TestUnknownCollection(t *testing.T) {
	srv, _ := testServer(t)
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/widgets", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateRecord(t *testing.T) {
	srv, db := testServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/customers", map[string]any{
		"name": "Grace Hopper", "email": "grace@example.com", "status": "active",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%v)", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatal("expected assigned id")
	}
	got, err := db.GetCustomer(id)
	if err != nil {
		t.Fatalf("get created: %v", err)
	}
	if got.Name != "Grace Hopper" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestRefreshPicksUpStoreChanges(t *testing.T) {
	srv, db := testServer(t)
	seedCollection(t, srv, "customers")

	// Load the controller, then write behind its back.
	doJSON(t, http.MethodGet, srv.URL+"/api/customers/view", nil)
	db.CreateCustomer(&store.Customer{Name: "Late Arrival", Email: "late@example.com", Status: "active"})

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/customers/refresh", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["count"].(float64) != 6 {
		t.Errorf("count = %v, want 6", body["count"])
	}
}

func TestProductsViewDerivedStatus(t *testing.T) {
	srv, _ := testServer(t)
	seedCollection(t, srv, "products")

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/products/view?stock_status=out_of_stock", nil)
	view := body["view"].(map[string]any)
	if n := view["total_items"].(float64); n != 2 {
		t.Errorf("out_of_stock = %v, want 2", n)
	}
}

func TestDashboard(t *testing.T) {
	srv, _ := testServer(t)
	seedCollection(t, srv, "customers")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	collections := body["collections"].(map[string]any)
	customers, ok := collections["customers"].(map[string]any)
	if !ok {
		t.Fatalf("no customers summary: %v", collections)
	}
	if customers["total"].(float64) != 5 {
		t.Errorf("customers total = %v, want 5", customers["total"])
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["database"] != true {
		t.Errorf("database = %v, want true", body["database"])
	}
}
