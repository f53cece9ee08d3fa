package www

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"ordermate/config"
	"ordermate/listview"
	"ordermate/statcache"
	"ordermate/store"
)

// collection is one dashboard page behind the /api/{collection} surface.
// Each implementation wraps a listview controller over a store table.
type collection interface {
	Name() string
	Load(ctx context.Context) error
	View(ctx context.Context, params url.Values) (map[string]any, error)
	UpdateField(ctx context.Context, id, field string, value any) error
	List(ctx context.Context) (any, error)
	Create(ctx context.Context, body []byte) (string, error)
	Seed() (int, error)
	Len() int
	Summary(ctx context.Context) (*statcache.Summary, error)
}

// listCollection adapts a generic controller to the non-generic
// collection interface the router works with.
type listCollection[T any] struct {
	name    string
	ctrl    *listview.Controller[T]
	filters []string
	list    func(ctx context.Context) (any, error)
	create  func(ctx context.Context, body []byte) (string, error)
	seed    func() (int, error)
}

func (c *listCollection[T]) Name() string { return c.name }

func (c *listCollection[T]) Load(ctx context.Context) error {
	return c.ctrl.Load(ctx)
}

// ensureLoaded lazily loads the controller on its first use.
func (c *listCollection[T]) ensureLoaded(ctx context.Context) error {
	if status, _ := c.ctrl.Status(); status == listview.StatusIdle {
		return c.ctrl.Load(ctx)
	}
	return nil
}

// View applies the request's filter state and returns one page plus
// stats. The endpoint is stateless per request: absent filter params
// mean unconstrained.
func (c *listCollection[T]) View(ctx context.Context, params url.Values) (map[string]any, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.ctrl.SetSearch(params.Get("q"))
	for _, f := range c.filters {
		v := params.Get(f)
		if v == "" {
			v = listview.AllValues
		}
		c.ctrl.SetFilter(f, v)
	}
	if p, err := strconv.Atoi(params.Get("page")); err == nil {
		c.ctrl.SetPage(p)
	}

	pv := c.ctrl.Page()
	st := c.ctrl.Stats()
	status, loadErr := c.ctrl.Status()
	resp := map[string]any{
		"success": true,
		"view":    pv,
		"stats":   st,
		"status":  status.String(),
	}
	if loadErr != nil {
		resp["load_error"] = loadErr.Error()
	}
	return resp, nil
}

func (c *listCollection[T]) UpdateField(ctx context.Context, id, field string, value any) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	return c.ctrl.UpdateField(ctx, id, field, value)
}

func (c *listCollection[T]) List(ctx context.Context) (any, error) {
	return c.list(ctx)
}

func (c *listCollection[T]) Create(ctx context.Context, body []byte) (string, error) {
	return c.create(ctx, body)
}

func (c *listCollection[T]) Seed() (int, error) {
	return c.seed()
}

func (c *listCollection[T]) Len() int { return c.ctrl.Len() }

func (c *listCollection[T]) Summary(ctx context.Context) (*statcache.Summary, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	st := c.ctrl.Stats()
	return &statcache.Summary{
		Collection: c.name,
		Total:      st.Total,
		Counts:     st.Counts,
		Sums:       st.Sums,
	}, nil
}

// buildCollections wires a controller per collection: schema, fetch from
// the store, gateway per config, and the page sizes the dashboard uses.
func buildCollections(db *store.DB, cfg config.GatewayConfig) map[string]collection {
	cols := map[string]collection{}
	for _, c := range []collection{
		newCustomersCollection(db, cfg),
		newOrdersCollection(db, cfg),
		newProductsCollection(db, cfg),
		newFeedbackCollection(db, cfg),
		newIncidentsCollection(db, cfg),
	} {
		cols[c.Name()] = c
	}
	return cols
}

// gatewayFor picks the write-through target: the local store (default),
// an external PATCH endpoint, or no-op demo mode.
func gatewayFor(name string, cfg config.GatewayConfig, storeGw listview.GatewayFunc) listview.Gateway {
	switch cfg.Mode {
	case "remote":
		return listview.NewRemoteGateway(cfg.BaseURL+"/"+name, cfg.Timeout)
	case "local":
		return listview.LocalGateway{}
	default:
		return storeGw
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// --- customers ---

func newCustomersCollection(db *store.DB, cfg config.GatewayConfig) collection {
	schema := listview.Schema[store.Customer]{
		ID: func(c store.Customer) string { return c.ID },
		Searchable: []func(store.Customer) string{
			func(c store.Customer) string { return c.Name },
			func(c store.Customer) string { return c.Email },
			func(c store.Customer) string { return c.ID },
			func(c store.Customer) string { return c.Phone },
		},
		Categorical: map[string]listview.CategoricalField[store.Customer]{
			"status":   {Value: func(c store.Customer) string { return c.Status }, Mode: listview.MatchExact},
			"location": {Value: func(c store.Customer) string { return c.Location }, Mode: listview.MatchContains},
		},
		Numeric: map[string]func(store.Customer) float64{
			"total_spent": func(c store.Customer) float64 { return c.TotalSpent },
		},
		Apply: func(c *store.Customer, field string, value any) bool {
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

	fetch := func(ctx context.Context) ([]store.Customer, error) {
		rows, err := db.ListCustomers()
		if err != nil {
			return nil, err
		}
		return derefAll(rows), nil
	}

	storeGw := listview.GatewayFunc(func(ctx context.Context, id, field string, value any) error {
		if field != "status" {
			return fmt.Errorf("customers: field %q is not writable", field)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("customers: status must be a string")
		}
		return db.UpdateCustomerStatus(id, s)
	})

	return &listCollection[store.Customer]{
		name:    "customers",
		ctrl:    listview.New(schema, fetch, gatewayFor("customers", cfg, storeGw), 10),
		filters: []string{"status", "location"},
		list: func(ctx context.Context) (any, error) {
			rows, err := db.ListCustomers()
			return rows, err
		},
		create: func(ctx context.Context, body []byte) (string, error) {
			var c store.Customer
			if err := json.Unmarshal(body, &c); err != nil {
				return "", err
			}
			if err := db.CreateCustomer(&c); err != nil {
				return "", err
			}
			return c.ID, nil
		},
		seed: db.SeedCustomers,
	}
}

// --- orders ---

func newOrdersCollection(db *store.DB, cfg config.GatewayConfig) collection {
	schema := listview.Schema[store.Order]{
		ID: func(o store.Order) string { return o.ID },
		Searchable: []func(store.Order) string{
			func(o store.Order) string { return o.Name },
			func(o store.Order) string { return o.Email },
			func(o store.Order) string { return o.ID },
			func(o store.Order) string { return o.OrderLink },
		},
		Categorical: map[string]listview.CategoricalField[store.Order]{
			"status": {Value: func(o store.Order) string { return o.Status }, Mode: listview.MatchContains},
			"date":   {Value: func(o store.Order) string { return o.Date }, Mode: listview.MatchContains},
		},
		Numeric: map[string]func(store.Order) float64{
			"items": func(o store.Order) float64 { return float64(o.ItemCount()) },
		},
		Apply: func(o *store.Order, field string, value any) bool {
			switch field {
			case "status":
				if s, ok := value.(string); ok {
					o.Status = s
					return true
				}
			}
			return false
		},
	}

	fetch := func(ctx context.Context) ([]store.Order, error) {
		rows, err := db.ListOrders()
		if err != nil {
			return nil, err
		}
		return derefAll(rows), nil
	}

	storeGw := listview.GatewayFunc(func(ctx context.Context, id, field string, value any) error {
		if field != "status" {
			return fmt.Errorf("orders: field %q is not writable", field)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("orders: status must be a string")
		}
		return db.UpdateOrderStatus(id, s)
	})

	return &listCollection[store.Order]{
		name:    "orders",
		ctrl:    listview.New(schema, fetch, gatewayFor("orders", cfg, storeGw), 10),
		filters: []string{"status", "date"},
		list: func(ctx context.Context) (any, error) {
			rows, err := db.ListOrders()
			return rows, err
		},
		create: func(ctx context.Context, body []byte) (string, error) {
			var o store.Order
			if err := json.Unmarshal(body, &o); err != nil {
				return "", err
			}
			if err := db.CreateOrder(&o); err != nil {
				return "", err
			}
			return o.ID, nil
		},
		seed: db.SeedOrders,
	}
}

// --- products ---

func newProductsCollection(db *store.DB, cfg config.GatewayConfig) collection {
	schema := listview.Schema[store.Product]{
		ID: func(p store.Product) string { return p.ID },
		Searchable: []func(store.Product) string{
			func(p store.Product) string { return p.Name },
			func(p store.Product) string { return p.SKU },
			func(p store.Product) string { return p.Category },
		},
		Categorical: map[string]listview.CategoricalField[store.Product]{
			"category":     {Value: func(p store.Product) string { return p.Category }, Mode: listview.MatchExact},
			"stock_status": {Value: func(p store.Product) string { return p.StockStatus() }, Mode: listview.MatchExact},
		},
		Numeric: map[string]func(store.Product) float64{
			"inventory_value": func(p store.Product) float64 { return p.InventoryValue() },
		},
		Apply: func(p *store.Product, field string, value any) bool {
			switch field {
			case "stock":
				if n, ok := toInt(value); ok && n >= 0 {
					p.Stock = n
					return true
				}
			case "price":
				if f, ok := toFloat(value); ok && f >= 0 {
					p.Price = f
					return true
				}
			case "low_stock_threshold":
				if n, ok := toInt(value); ok && n >= 0 {
					p.LowStockThreshold = n
					return true
				}
			}
			return false
		},
	}

	fetch := func(ctx context.Context) ([]store.Product, error) {
		rows, err := db.ListProducts()
		if err != nil {
			return nil, err
		}
		return derefAll(rows), nil
	}

	storeGw := listview.GatewayFunc(func(ctx context.Context, id, field string, value any) error {
		if field != "stock" {
			return fmt.Errorf("products: field %q is not writable", field)
		}
		n, ok := toInt(value)
		if !ok || n < 0 {
			return fmt.Errorf("products: stock must be a non-negative integer")
		}
		return db.UpdateProductStock(id, n)
	})

	return &listCollection[store.Product]{
		name:    "products",
		ctrl:    listview.New(schema, fetch, gatewayFor("products", cfg, storeGw), 8),
		filters: []string{"category", "stock_status"},
		list: func(ctx context.Context) (any, error) {
			rows, err := db.ListProducts()
			return rows, err
		},
		create: func(ctx context.Context, body []byte) (string, error) {
			var p store.Product
			if err := json.Unmarshal(body, &p); err != nil {
				return "", err
			}
			if err := db.CreateProduct(&p); err != nil {
				return "", err
			}
			return p.ID, nil
		},
		seed: db.SeedProducts,
	}
}

// --- feedback ---

func newFeedbackCollection(db *store.DB, cfg config.GatewayConfig) collection {
	schema := listview.Schema[store.Feedback]{
		ID: func(f store.Feedback) string { return f.ID },
		Searchable: []func(store.Feedback) string{
			func(f store.Feedback) string { return f.Customer },
			func(f store.Feedback) string { return f.Product },
			func(f store.Feedback) string { return f.Comment },
		},
		Categorical: map[string]listview.CategoricalField[store.Feedback]{
			"status": {Value: func(f store.Feedback) string { return f.Status }, Mode: listview.MatchExact},
			"rating": {Value: func(f store.Feedback) string { return strconv.Itoa(f.Rating) }, Mode: listview.MatchExact},
		},
		Numeric: map[string]func(store.Feedback) float64{
			"rating":  func(f store.Feedback) float64 { return float64(f.Rating) },
			"helpful": func(f store.Feedback) float64 { return float64(f.Helpful) },
		},
		Apply: func(f *store.Feedback, field string, value any) bool {
			switch field {
			case "status":
				if s, ok := value.(string); ok {
					f.Status = s
					return true
				}
			case "helpful":
				if n, ok := toInt(value); ok && n >= 0 {
					f.Helpful = n
					return true
				}
			}
			return false
		},
	}

	fetch := func(ctx context.Context) ([]store.Feedback, error) {
		rows, err := db.ListFeedback()
		if err != nil {
			return nil, err
		}
		return derefAll(rows), nil
	}

	storeGw := listview.GatewayFunc(func(ctx context.Context, id, field string, value any) error {
		if field != "status" {
			return fmt.Errorf("feedback: field %q is not writable", field)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("feedback: status must be a string")
		}
		return db.UpdateFeedbackStatus(id, s)
	})

	return &listCollection[store.Feedback]{
		name:    "feedback",
		ctrl:    listview.New(schema, fetch, gatewayFor("feedback", cfg, storeGw), 6),
		filters: []string{"status", "rating"},
		list: func(ctx context.Context) (any, error) {
			rows, err := db.ListFeedback()
			return rows, err
		},
		create: func(ctx context.Context, body []byte) (string, error) {
			var f store.Feedback
			if err := json.Unmarshal(body, &f); err != nil {
				return "", err
			}
			if err := db.CreateFeedback(&f); err != nil {
				return "", err
			}
			return f.ID, nil
		},
		seed: db.SeedFeedback,
	}
}

// --- incidents ---

func newIncidentsCollection(db *store.DB, cfg config.GatewayConfig) collection {
	schema := listview.Schema[store.Incident]{
		ID: func(in store.Incident) string { return in.ID },
		Searchable: []func(store.Incident) string{
			func(in store.Incident) string { return in.Title },
			func(in store.Incident) string { return in.Description },
			func(in store.Incident) string { return in.ErrorID },
		},
		Categorical: map[string]listview.CategoricalField[store.Incident]{
			"severity": {Value: func(in store.Incident) string { return in.Severity }, Mode: listview.MatchExact},
			"status":   {Value: func(in store.Incident) string { return in.Status }, Mode: listview.MatchExact},
			"category": {Value: func(in store.Incident) string { return in.Category }, Mode: listview.MatchExact},
		},
		Numeric: map[string]func(store.Incident) float64{
			"affected_users": func(in store.Incident) float64 { return float64(in.AffectedUsers) },
		},
		Apply: func(in *store.Incident, field string, value any) bool {
			switch field {
			case "status":
				if s, ok := value.(string); ok {
					in.Status = s
					return true
				}
			}
			return false
		},
	}

	fetch := func(ctx context.Context) ([]store.Incident, error) {
		rows, err := db.ListIncidents()
		if err != nil {
			return nil, err
		}
		return derefAll(rows), nil
	}

	storeGw := listview.GatewayFunc(func(ctx context.Context, id, field string, value any) error {
		if field != "status" {
			return fmt.Errorf("incidents: field %q is not writable", field)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("incidents: status must be a string")
		}
		if s == "resolved" {
			return db.ResolveIncident(id, "dashboard")
		}
		return db.UpdateIncidentStatus(id, s)
	})

	return &listCollection[store.Incident]{
		name:    "incidents",
		ctrl:    listview.New(schema, fetch, gatewayFor("incidents", cfg, storeGw), 10),
		filters: []string{"severity", "status", "category"},
		list: func(ctx context.Context) (any, error) {
			rows, err := db.ListIncidents()
			return rows, err
		},
		create: func(ctx context.Context, body []byte) (string, error) {
			var in store.Incident
			if err := json.Unmarshal(body, &in); err != nil {
				return "", err
			}
			if err := db.CreateIncident(&in); err != nil {
				return "", err
			}
			return in.ID, nil
		},
		seed: db.SeedIncidents,
	}
}

func derefAll[T any](in []*T) []T {
	out := make([]T, len(in))
	for i, p := range in {
		out[i] = *p
	}
	return out
}
