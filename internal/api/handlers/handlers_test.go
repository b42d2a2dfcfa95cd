package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"discount-leverage/internal/api/models"
	"discount-leverage/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

const referenceParams = `{
	"price_a": 100,
	"new_price_a": 90,
	"qty_a": 1000,
	"margin_a_total": 30000,
	"elasticity": -1.2,
	"margin_b_unit": 50,
	"attach_rates": [20, 10, 6, 4],
	"discount_rate_pct": 8
}`

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	preset := `
params:
  name: Reference
  price_a: 100
  new_price_a: 90
  qty_a: 1000
  margin_a_total: 30000
  elasticity: -1.2
  margin_b_unit: 50
  attach_rates: [20, 10, 6, 4]
  discount_rate_pct: 8
`
	if err := os.WriteFile(filepath.Join(dir, "reference.yaml"), []byte(preset), 0o600); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return NewRouter(dir, data.NewResultCache(time.Minute)), dir
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	decode(t, w, &resp)
	return resp.Error.Code
}

func TestSimulate_ThenFetchLedger(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/simulate", `{"params": `+referenceParams+`, "format": {"locale": "en-US", "currency": "USD"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp models.SimulateResponse
	decode(t, w, &resp)

	if resp.ID == "" || resp.Status != "completed" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if math.Abs(resp.Result.DMarginA-(-7600)) > 1e-6 || math.Abs(resp.Result.Cum-(-5200)) > 1e-6 {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
	if len(resp.Waterfall) != 6 || len(resp.Ledger) != 4 {
		t.Fatalf("waterfall=%d ledger=%d", len(resp.Waterfall), len(resp.Ledger))
	}
	if !strings.Contains(resp.Display["cum"], "5,200") {
		t.Fatalf("display cum = %q", resp.Display["cum"])
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/ledger", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ledger status=%d body=%s", w.Code, w.Body.String())
	}
	var ledger models.LedgerResponse
	decode(t, w, &ledger)
	if ledger.ID != resp.ID || len(ledger.Ledger) != 4 {
		t.Fatalf("unexpected ledger: %+v", ledger)
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/ledger?format=csv", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "index,year,") {
		t.Fatalf("csv status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestGetLedger_UnknownID(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/v1/simulations/nope/ledger", "")
	if w.Code != http.StatusNotFound || errorCode(t, w) != "NOT_FOUND" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestSimulate_RejectsInvalidInput(t *testing.T) {
	r, _ := newTestRouter(t)
	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"zero price", `{"params": {"price_a": 0, "qty_a": 10}}`, http.StatusBadRequest, "INVALID_PARAMS"},
		{"three attach rates", `{"params": {"price_a": 100, "attach_rates": [1, 2, 3]}}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"malformed json", `{"params": `, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad format", `{"params": {"price_a": 100}, "format": {"locale": "en-US", "currency": "EURO"}}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown preset", `{"preset_id": "missing"}`, http.StatusNotFound, "PRESET_NOT_FOUND"},
		{"traversal preset", `{"preset_id": "../reference"}`, http.StatusNotFound, "PRESET_NOT_FOUND"},
	}
	for _, tc := range cases {
		w := do(t, r, http.MethodPost, "/api/v1/simulate", tc.body)
		if w.Code != tc.status {
			t.Fatalf("%s: status=%d, want %d (body=%s)", tc.name, w.Code, tc.status, w.Body.String())
		}
		if got := errorCode(t, w); got != tc.code {
			t.Fatalf("%s: code=%q, want %q", tc.name, got, tc.code)
		}
	}
}

func TestSimulate_NonFiniteResultIsRejected(t *testing.T) {
	r, _ := newTestRouter(t)
	// Volume grows but B carries no margin, so the breakeven attach rate is infinite.
	body := `{"params": {"price_a": 100, "new_price_a": 90, "qty_a": 1000, "margin_a_total": 30000, "elasticity": -1.2, "attach_rates": [20, 10, 6, 4]}}`
	w := do(t, r, http.MethodPost, "/api/v1/simulate", body)
	if w.Code != http.StatusUnprocessableEntity || errorCode(t, w) != "NON_FINITE_RESULT" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestBreakeven_FromPreset(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/breakeven", `{"preset_id": "reference", "discount_pcts": [10, 0]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp models.BreakevenResponse
	decode(t, w, &resp)
	if len(resp.Curve) != 2 || resp.Curve[0].DiscountPct != 10 || resp.Curve[1].DiscountPct != 0 {
		t.Fatalf("unexpected curve: %+v", resp.Curve)
	}
	if math.Abs(resp.Curve[0].AttachRequired-7600.0/6000.0*100) > 1e-6 {
		t.Fatalf("attach required = %v", resp.Curve[0].AttachRequired)
	}

	w = do(t, r, http.MethodPost, "/api/v1/breakeven", `{"preset_id": "reference"}`)
	decode(t, w, &resp)
	if len(resp.Curve) != 21 {
		t.Fatalf("default curve has %d points, want 21", len(resp.Curve))
	}
}

func TestSensitivity_DefaultAndInvalidStep(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/sensitivity", `{"params": `+referenceParams+`}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp models.SensitivityResponse
	decode(t, w, &resp)
	if resp.Step != 0.1 || len(resp.Bars) != 4 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Bars[0].Driver != "elasticity" || resp.Bars[3].Driver != "discount_rate" {
		t.Fatalf("unexpected order: %+v", resp.Bars)
	}

	w = do(t, r, http.MethodPost, "/api/v1/sensitivity", `{"params": `+referenceParams+`, "step": 2}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400 for step 2", w.Code)
	}
}

func TestScenarios_Defaults(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/scenarios", `{"preset_id": "reference"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp models.ScenariosResponse
	decode(t, w, &resp)
	if len(resp.Scenarios) != 3 || len(resp.Cohorts) != 3 || len(resp.Labels) != 6 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.BestNPV == "" {
		t.Fatalf("best_npv not set")
	}
}

func TestScenarios_CohortSharesMustSumToOne(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/scenarios", `{"preset_id": "reference", "cohort_shares": [0.9, 0.9]}`)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "INVALID_REQUEST" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/v1/scenarios", `{"preset_id": "reference", "cohort_shares": [0.6, 0.4]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp models.ScenariosResponse
	decode(t, w, &resp)
	if len(resp.Cohorts) != 2 {
		t.Fatalf("cohorts=%d, want 2", len(resp.Cohorts))
	}
}

func TestSimulate_RejectsDiscountRateAtMinus100(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/simulate", `{"preset_id": "reference", "params": {"discount_rate_pct": -100}}`)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "INVALID_PARAMS" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListPresetsAndDrivers(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/presets", "")
	var presets struct {
		Presets []models.PresetInfo `json:"presets"`
	}
	decode(t, w, &presets)
	if len(presets.Presets) != 1 || presets.Presets[0].Name != "Reference" {
		t.Fatalf("unexpected presets: %+v", presets)
	}
	if math.Abs(presets.Presets[0].DiscountPct-10) > 1e-9 {
		t.Fatalf("discount pct = %v, want 10", presets.Presets[0].DiscountPct)
	}

	w = do(t, r, http.MethodGet, "/api/v1/drivers", "")
	var drivers struct {
		Drivers []map[string]string `json:"drivers"`
	}
	decode(t, w, &drivers)
	if len(drivers.Drivers) != 4 {
		t.Fatalf("unexpected drivers: %+v", drivers)
	}
}

func TestHealthAndCORS(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status=%d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("missing CORS header: %v", rec.Header())
	}
}
