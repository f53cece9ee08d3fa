package listview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

type customer struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	TotalSpent float64
	Status     string
	Location   string
}

func customerSchema() Schema[customer] {
	return Schema[customer]{
		ID: func(c customer) string { return c.ID },
		Searchable: []func(customer) string{
			func(c customer) string { return c.Name },
			func(c customer) string { return c.Email },
			func(c customer) string { return c.ID },
			func(c customer) string { return c.Phone },
		},
		Categorical: map[string]CategoricalField[customer]{
			"status":   {Value: func(c customer) string { return c.Status }, Mode: MatchExact},
			"location": {Value: func(c customer) string { return c.Location }, Mode: MatchContains},
		},
		Numeric: map[string]func(customer) float64{
			"total_spent": func(c customer) float64 { return c.TotalSpent },
		},
		Apply: func(c *customer, field string, value any) bool {
			switch field {
			case "status":
				if s, ok := value.(string); ok {
					c.Status = s
					return true
				}
			}
			return false
		},
	}
}

// seedCustomers mirrors the demo fixture: five customers, total spend
// 8708.20, with Mike Johnson and David Brown flagged vip.
func seedCustomers() []customer {
	return []customer{
		{ID: "c1", Name: "John Doe", Email: "john@example.com", Phone: "+1 (555) 123-4567", TotalSpent: 1543.98, Status: "active", Location: "New York, NY"},
		{ID: "c2", Name: "Jane Smith", Email: "jane@example.com", Phone: "+1 (555) 234-5678", TotalSpent: 892.45, Status: "active", Location: "Los Angeles, CA"},
		{ID: "c3", Name: "Mike Johnson", Email: "mike@example.com", Phone: "+1 (555) 345-6789", TotalSpent: 2156.32, Status: "vip", Location: "Chicago, IL"},
		{ID: "c4", Name: "Sarah Wilson", Email: "sarah@example.com", Phone: "+1 (555) 456-7890", TotalSpent: 267.89, Status: "inactive", Location: "Houston, TX"},
		{ID: "c5", Name: "David Brown", Email: "david@example.com", Phone: "+1 (555) 567-8901", TotalSpent: 3847.56, Status: "vip", Location: "Phoenix, AZ"},
	}
}

func staticFetch(records []customer) Fetch[customer] {
	return func(context.Context) ([]customer, error) {
		return records, nil
	}
}

func loadedController(t *testing.T, records []customer) *Controller[customer] {
	t.Helper()
	c := New(customerSchema(), staticFetch(records), LocalGateway{}, 10)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

// --- Filter engine ---

func TestFilterEmptyReturnsAll(t *testing.T) {
	c := loadedController(t, seedCustomers())
	pv := c.Page()
	if len(pv.Items) != 5 {
		t.Fatalf("len = %d, want 5", len(pv.Items))
	}
	for i, rec := range pv.Items {
		if rec.ID != seedCustomers()[i].ID {
			t.Errorf("order not preserved at %d: got %s, want %s", i, rec.ID, seedCustomers()[i].ID)
		}
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetSearch("JANE")
	pv := c.Page()
	if len(pv.Items) != 1 || pv.Items[0].ID != "c2" {
		t.Fatalf("search JANE = %v, want [c2]", pv.Items)
	}

	// Search hits any declared searchable field, including id and phone.
	c.SetSearch("567-89")
	pv = c.Page()
	if len(pv.Items) != 1 || pv.Items[0].ID != "c5" {
		t.Fatalf("search by phone = %v, want [c5]", pv.Items)
	}
}

func TestFilterSearchMissingFieldsNeverMatch(t *testing.T) {
	records := []customer{{ID: "x1", Status: "active"}} // all searchable fields empty except ID
	c := loadedController(t, records)
	c.SetSearch("anything")
	if pv := c.Page(); len(pv.Items) != 0 {
		t.Fatalf("len = %d, want 0", len(pv.Items))
	}
}

func TestFilterStatusExact(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetFilter("status", "vip")
	pv := c.Page()
	if len(pv.Items) != 2 {
		t.Fatalf("vip count = %d, want 2", len(pv.Items))
	}
	if pv.Items[0].Name != "Mike Johnson" || pv.Items[1].Name != "David Brown" {
		t.Errorf("vip customers = %s, %s", pv.Items[0].Name, pv.Items[1].Name)
	}

	// Exact mode must not substring-match.
	c.SetFilter("status", "vi")
	if pv := c.Page(); len(pv.Items) != 0 {
		t.Errorf("partial exact match = %d items, want 0", len(pv.Items))
	}
}

func TestFilterLocationContains(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetFilter("location", "chicago")
	pv := c.Page()
	if len(pv.Items) != 1 || pv.Items[0].ID != "c3" {
		t.Fatalf("location filter = %v, want [c3]", pv.Items)
	}
}

func TestFilterUnknownValueYieldsEmpty(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetFilter("status", "archived")
	if pv := c.Page(); len(pv.Items) != 0 {
		t.Fatalf("len = %d, want 0", len(pv.Items))
	}
}

func TestFilterAllSentinelUnconstrains(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetFilter("status", "vip")
	c.SetFilter("status", AllValues)
	if pv := c.Page(); len(pv.Items) != 5 {
		t.Fatalf("len = %d, want 5", len(pv.Items))
	}
}

func TestFilterConjunction(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetSearch("example.com")
	c.SetFilter("status", "vip")
	c.SetFilter("location", "phoenix")
	pv := c.Page()
	if len(pv.Items) != 1 || pv.Items[0].ID != "c5" {
		t.Fatalf("conjunction = %v, want [c5]", pv.Items)
	}
}

func TestFilterIsProjection(t *testing.T) {
	s := customerSchema()
	f := FilterState{Search: "example", Categorical: map[string]string{"status": "vip"}}
	once := s.filtered(seedCustomers(), f)
	twice := s.filtered(once, f)
	if len(once) != len(twice) {
		t.Fatalf("re-filtering changed size: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("re-filtering changed order at %d", i)
		}
	}
}

// --- Stats aggregator ---

func TestStatsRevenueAndCounts(t *testing.T) {
	c := loadedController(t, seedCustomers())
	st := c.Stats()
	if st.Total != 5 {
		t.Errorf("total = %d, want 5", st.Total)
	}
	if got := st.Sum("total_spent"); got != 8708.20 {
		t.Errorf("total revenue = %.2f, want 8708.20", got)
	}
	if got := st.Count("status", "active"); got != 2 {
		t.Errorf("active = %d, want 2", got)
	}
	if got := st.Count("status", "vip"); got != 2 {
		t.Errorf("vip = %d, want 2", got)
	}
	if got := st.Count("status", "inactive"); got != 1 {
		t.Errorf("inactive = %d, want 1", got)
	}
}

func TestStatsIgnoreFilters(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetFilter("status", "vip")
	st := c.Stats()
	if st.Total != 5 {
		t.Errorf("filtered stats total = %d, want 5 (stats must use the full set)", st.Total)
	}
	if got := st.Sum("total_spent"); got != 8708.20 {
		t.Errorf("filtered stats revenue = %.2f, want 8708.20", got)
	}
}

func TestStatsNaNTreatedAsZero(t *testing.T) {
	records := seedCustomers()
	records = append(records, customer{ID: "c6", Name: "Broken", TotalSpent: math.NaN(), Status: "active"})
	c := loadedController(t, records)
	st := c.Stats()
	if got := st.Sum("total_spent"); got != 8708.20 {
		t.Errorf("sum with NaN record = %.2f, want 8708.20", got)
	}
}

func TestStatsRecomputeAfterPatch(t *testing.T) {
	c := loadedController(t, seedCustomers())
	if got := c.Stats().Count("status", "vip"); got != 2 {
		t.Fatalf("vip before = %d, want 2", got)
	}
	if err := c.ApplyPatch("c1", map[string]any{"status": "vip"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got := c.Stats().Count("status", "vip"); got != 3 {
		t.Errorf("vip after = %d, want 3", got)
	}
}

// --- Paginator ---

func TestPaginate47Records(t *testing.T) {
	records := make([]customer, 47)
	for i := range records {
		records[i] = customer{ID: fmt.Sprintf("r%02d", i), Name: "n", Status: "active"}
	}
	c := loadedController(t, records)

	pv := c.Page()
	if pv.TotalPages != 5 {
		t.Fatalf("totalPages = %d, want 5", pv.TotalPages)
	}
	if len(pv.Items) != 10 || pv.From != 1 || pv.To != 10 {
		t.Errorf("page 1 = %d items [%d..%d], want 10 [1..10]", len(pv.Items), pv.From, pv.To)
	}

	c.SetPage(5)
	pv = c.Page()
	if len(pv.Items) != 7 || pv.From != 41 || pv.To != 47 {
		t.Errorf("page 5 = %d items [%d..%d], want 7 [41..47]", len(pv.Items), pv.From, pv.To)
	}
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	c := loadedController(t, seedCustomers())
	c.SetPage(99)
	pv := c.Page()
	if pv.CurrentPage != 1 {
		t.Errorf("currentPage = %d, want 1 (5 records fit one page)", pv.CurrentPage)
	}
	c.SetPage(-3)
	if pv := c.Page(); pv.CurrentPage != 1 {
		t.Errorf("negative page = %d, want 1", pv.CurrentPage)
	}
}

func TestPaginateEmptyView(t *testing.T) {
	c := loadedController(t, nil)
	pv := c.Page()
	if pv.TotalPages != 1 || pv.CurrentPage != 1 || len(pv.Items) != 0 {
		t.Errorf("empty view = %d pages, page %d, %d items", pv.TotalPages, pv.CurrentPage, len(pv.Items))
	}
	if pv.From != 0 || pv.To != 0 {
		t.Errorf("empty view range = [%d..%d], want [0..0]", pv.From, pv.To)
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	records := make([]customer, 47)
	for i := range records {
		records[i] = customer{ID: fmt.Sprintf("r%02d", i), Name: "searchable", Status: "active"}
	}
	c := loadedController(t, records)
	c.SetPage(3)
	if pv := c.Page(); pv.CurrentPage != 3 {
		t.Fatalf("page = %d, want 3", pv.CurrentPage)
	}
	c.SetSearch("searchable")
	if pv := c.Page(); pv.CurrentPage != 1 {
		t.Errorf("page after search change = %d, want 1", pv.CurrentPage)
	}

	c.SetPage(3)
	c.SetFilter("status", "active")
	if pv := c.Page(); pv.CurrentPage != 1 {
		t.Errorf("page after filter change = %d, want 1", pv.CurrentPage)
	}
}

func TestMutationKeepsPage(t *testing.T) {
	records := make([]customer, 47)
	for i := range records {
		records[i] = customer{ID: fmt.Sprintf("r%02d", i), Status: "active"}
	}
	c := loadedController(t, records)
	c.SetPage(3)
	if err := c.ApplyPatch("r00", map[string]any{"status": "vip"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if pv := c.Page(); pv.CurrentPage != 3 {
		t.Errorf("page after mutation = %d, want 3", pv.CurrentPage)
	}
}

// --- Record store ---

func TestLoadPreservesRecordsOnError(t *testing.T) {
	calls := 0
	fetch := func(context.Context) ([]customer, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("backend down")
		}
		return seedCustomers(), nil
	}
	c := New(customerSchema(), fetch, LocalGateway{}, 10)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	err := c.Load(context.Background())
	if err == nil {
		t.Fatal("second load should fail")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Errorf("error type = %T, want *FetchError", err)
	}
	status, loadErr := c.Status()
	if status != StatusError || loadErr == nil {
		t.Errorf("status = %v (%v), want error state", status, loadErr)
	}
	// Last-good data stays renderable behind the error banner.
	if got := c.Len(); got != 5 {
		t.Errorf("records after failed reload = %d, want 5", got)
	}
}

func TestRefreshReplacesRecords(t *testing.T) {
	data := seedCustomers()
	fetch := func(context.Context) ([]customer, error) { return data, nil }
	c := New(customerSchema(), fetch, LocalGateway{}, 10)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	data = data[:2]
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := c.Len(); got != 2 {
		t.Errorf("records after refresh = %d, want 2", got)
	}
	if status, _ := c.Status(); status != StatusReady {
		t.Errorf("status = %v, want ready", status)
	}
}

func TestApplyPatchTouchesOnlyTarget(t *testing.T) {
	c := loadedController(t, seedCustomers())
	if err := c.ApplyPatch("c1", map[string]any{"status": "vip"}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	for _, rec := range c.Records() {
		want := map[string]string{"c1": "vip", "c2": "active", "c3": "vip", "c4": "inactive", "c5": "vip"}[rec.ID]
		if rec.Status != want {
			t.Errorf("%s status = %q, want %q", rec.ID, rec.Status, want)
		}
	}
}

func TestApplyPatchUnknownID(t *testing.T) {
	c := loadedController(t, seedCustomers())
	err := c.ApplyPatch("nope", map[string]any{"status": "vip"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	for _, rec := range c.Records() {
		if rec.ID == "c1" && rec.Status != "active" {
			t.Errorf("store mutated on not-found patch")
		}
	}
}

func TestApplyPatchSkipsUnknownFields(t *testing.T) {
	c := loadedController(t, seedCustomers())
	if err := c.ApplyPatch("c1", map[string]any{"no_such_field": 42}); err != nil {
		t.Fatalf("patch with unknown field should not error: %v", err)
	}
}

// --- Mutation gateway ---

type recordingGateway struct {
	calls []string
	err   error
}

func (g *recordingGateway) UpdateField(_ context.Context, id, field string, value any) error {
	g.calls = append(g.calls, fmt.Sprintf("%s.%s=%v", id, field, value))
	return g.err
}

func TestUpdateFieldWritesThroughThenPatches(t *testing.T) {
	gw := &recordingGateway{}
	c := New(customerSchema(), staticFetch(seedCustomers()), gw, 10)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := c.UpdateField(context.Background(), "c1", "status", "vip"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(gw.calls) != 1 || gw.calls[0] != "c1.status=vip" {
		t.Errorf("gateway calls = %v", gw.calls)
	}
	got, _ := c.Get("c1")
	if got.Status != "vip" {
		t.Errorf("status = %q, want vip", got.Status)
	}
}

func TestUpdateFieldGatewayFailureLeavesStore(t *testing.T) {
	gw := &recordingGateway{err: errors.New("503")}
	c := New(customerSchema(), staticFetch(seedCustomers()), gw, 10)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := c.UpdateField(context.Background(), "c1", "status", "vip")
	var pe *PatchError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PatchError", err)
	}
	got, _ := c.Get("c1")
	if got.Status != "active" {
		t.Errorf("status after failed update = %q, want active", got.Status)
	}
}

func TestUpdateFieldUnknownIDSkipsGateway(t *testing.T) {
	gw := &recordingGateway{}
	c := New(customerSchema(), staticFetch(seedCustomers()), gw, 10)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := c.UpdateField(context.Background(), "nope", "status", "vip")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(gw.calls) != 0 {
		t.Errorf("gateway called for unknown id: %v", gw.calls)
	}
}

func TestRemoteGateway(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		gotPath = r.URL.Path
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := NewRemoteGateway(srv.URL+"/api/customers", 0)
	if err := gw.UpdateField(context.Background(), "c1", "status", "vip"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotPath != "/api/customers/c1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody != `{"status":"vip"}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestRemoteGatewayNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := NewRemoteGateway(srv.URL, 0)
	if err := gw.UpdateField(context.Background(), "c1", "status", "vip"); err == nil {
		t.Fatal("expected error on 502")
	}
}
