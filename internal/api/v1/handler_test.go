package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"salesboard/internal/config"
	"salesboard/internal/model"
	"salesboard/internal/service/pipeline"
	"salesboard/internal/store"
)

const salesCSV = `门店编号,查询时段,日期,汇总_流水
A,20250301~20250331,20250301,100
A,20250201~20250228,20250201,50
A,20240301~20240331,20240301,80
B,20250301~20250331,20250301,30
B,20250201~20250228,20250201,30
B,20240301~20240331,20240301,0
`

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(dir, "salesboard.db")

	st, err := store.New(cfg.DBPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, pipeline.NewRunner(cfg, st))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))

	input := filepath.Join(dir, "sales.csv")
	if err := os.WriteFile(input, []byte(salesCSV), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return r, input
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth_Empty(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ok" || resp.Initialized || resp.Tables != 0 {
		t.Fatalf("unexpected health: %+v", resp)
	}
}

func TestRunAndQueryTables(t *testing.T) {
	r, input := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/runs", pipeline.RunRequest{InputFile: input})
	if w.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var run model.RunLog
	if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if run.Status != model.RunStatusSuccess || run.TotalStores != 2 {
		t.Fatalf("unexpected run: %+v", run)
	}

	w = do(r, http.MethodGet, "/api/health", nil)
	var health HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &health)
	if !health.Initialized || health.LastRunID != run.ID || health.CurrentPeriod != "20250301~20250331" {
		t.Fatalf("unexpected health: %+v", health)
	}

	w = do(r, http.MethodGet, "/api/tables", nil)
	var list struct {
		Items []store.TableInfo `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if list.Total != 5 {
		t.Fatalf("unexpected tables: %+v", list)
	}

	w = do(r, http.MethodGet, "/api/tables/"+url.PathEscape("同比数据")+"?limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var table tableResponse
	if err := json.Unmarshal(w.Body.Bytes(), &table); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if table.Total != 2 || len(table.Rows) != 1 || table.Columns[0] != "门店编号" {
		t.Fatalf("unexpected table: %+v", table)
	}

	w = do(r, http.MethodGet, "/api/periods", nil)
	var periods struct {
		Items []store.PeriodRow `json:"items"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &periods)
	if len(periods.Items) != 3 || periods.Items[0].Role != "本期" {
		t.Fatalf("unexpected periods: %+v", periods)
	}

	w = do(r, http.MethodGet, "/api/runs", nil)
	var runs struct {
		Items []model.RunLog `json:"items"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &runs)
	if len(runs.Items) != 1 || runs.Items[0].ID != run.ID {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	w = do(r, http.MethodGet, "/api/runs/"+run.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestGetTable_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/tables/"+url.PathEscape("不存在"), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	w = do(r, http.MethodGet, "/api/tables/x?offset=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestCreateRun_Errors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/runs", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing input must be rejected: %d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/runs", pipeline.RunRequest{InputFile: "/nonexistent/sales.csv"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/runs/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}
