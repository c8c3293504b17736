package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	models "StockPredict/internal/domain/models"
	"StockPredict/internal/repository"
	"StockPredict/internal/service/ratelimit"
	"StockPredict/internal/usecase"
	xlogger "StockPredict/pkg/logger"
	"StockPredict/pkg/metrics"

	"github.com/labstack/echo/v4"
)

type fixture struct {
	e   *echo.Echo
	in  string
	out string
}

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

func newFixture(t *testing.T, limiter *ratelimit.Limiter) *fixture {
	t.Helper()
	in, out := t.TempDir(), t.TempDir()

	var b strings.Builder
	b.WriteString("Stock-ID,Timestamp,stock price\n")
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "FLKR,%02d-09-2023,%d.5\n", i, 100+i)
	}
	mustWrite(t, filepath.Join(in, "NYSE", "FLKR.csv"), b.String())
	mustWrite(t, filepath.Join(in, "NYSE", "tiny.csv"), "a,b,c\nFLKR,01-09-2023,1\n")
	if err := os.Mkdir(filepath.Join(out, "NYSE"), 0o755); err != nil {
		t.Fatal(err)
	}

	l := xlogger.Nop()
	m := metrics.Nop{}
	store := repository.NewCSVStore(in, out, l)
	h := NewPricesEchoHandler(l,
		usecase.NewSampler(store, m, zeroRand{}),
		usecase.NewPredictor(repository.NopPublisher{}, m, l),
		usecase.NewMerger(store, m),
		m,
	)
	if limiter != nil {
		h.SetLimiter(limiter)
	}
	e := echo.New()
	h.RegisterRoutes(e)
	return &fixture{e: e, in: in, out: out}
}

func mustWrite(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	f.e.ServeHTTP(rr, req)
	return rr
}

func TestGetDataPoints(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.post("/get_data_points/", `{"exchange_name":"NYSE","file_name":"FLKR.csv"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}
	var got []models.DataPoint
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 points, got %d", len(got))
	}
	if got[0] != (models.DataPoint{StockID: "FLKR", Timestamp: "01-09-2023", StockPrice: 101.5}) {
		t.Fatalf("unexpected first point %+v", got[0])
	}
	if !strings.Contains(rr.Body.String(), `"stock_price":101.5`) {
		t.Fatalf("wire field names changed: %s", rr.Body)
	}
}

func TestGetDataPointsErrors(t *testing.T) {
	f := newFixture(t, nil)
	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing file", `{"exchange_name":"NYSE","file_name":"nope.csv"}`, http.StatusNotFound},
		{"too few rows", `{"exchange_name":"NYSE","file_name":"tiny.csv"}`, http.StatusBadRequest},
		{"traversal", `{"exchange_name":"..","file_name":"etc"}`, http.StatusBadRequest},
		{"missing field", `{"exchange_name":"NYSE"}`, http.StatusBadRequest},
		{"malformed json", `{"exchange_name":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.post("/get_data_points/", tc.body)
			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rr.Code, rr.Body)
			}
		})
	}
}

func TestPredictStockPrices(t *testing.T) {
	f := newFixture(t, nil)
	prices := []float64{10, 12, 11, 13, 9, 14, 15, 13, 12, 11}
	pts := make([]models.DataPoint, len(prices))
	for i, p := range prices {
		pts[i] = models.DataPoint{StockID: "FLKR", Timestamp: fmt.Sprintf("%02d-02-2024", 19+i), StockPrice: p}
	}
	body, _ := json.Marshal(models.PredictionRequest{StockID: "FLKR", DataPoints: pts})

	rr := f.post("/predict_stock_prices/", string(body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}
	var got []models.DataPoint
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := []models.DataPoint{
		{StockID: "FLKR", Timestamp: "29-02-2024", StockPrice: 14},
		{StockID: "FLKR", Timestamp: "01-03-2024", StockPrice: 12.5},
		{StockID: "FLKR", Timestamp: "02-03-2024", StockPrice: 12.875},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestPredictStockPricesWrongLength(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.post("/predict_stock_prices", `{"stock_id":"FLKR","data_points":[{"stock_id":"FLKR","timestamp":"01-01-2024","stock_price":1}]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Body.String(), "ERR_BAD_REQUEST") {
		t.Fatalf("expected error envelope, got %s", rr.Body)
	}
}

func TestProcessFile(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"exchange_name":"NYSE",
		"data_points":[{"stock_id":"A","timestamp":"01-01-2024","stock_price":1},{"stock_id":"B","timestamp":"02-01-2024","stock_price":2}],
		"predicted_data_points":[{"stock_id":"C","timestamp":"03-01-2024","stock_price":3.5},{"stock_id":"D","timestamp":"04-01-2024","stock_price":4}]}`

	rr := f.post("/process_file/", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}
	var resp models.ProcessFileResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	wantPath := filepath.Join(f.out, "NYSE", "combined_output.csv")
	if resp.Message != "Processed and combined" || resp.OutputFile != wantPath {
		t.Fatalf("unexpected response %+v", resp)
	}
	b, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "stock_id,timestamp,stock_price\nA,01-01-2024,1.0\nB,02-01-2024,2.0\nC,03-01-2024,3.5\nD,04-01-2024,4.0\n"
	if string(b) != want {
		t.Fatalf("unexpected csv:\n%s", b)
	}
}

func TestProcessFileMissingDirectory(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.post("/process_file/", `{"exchange_name":"LSE","data_points":[],"predicted_data_points":[]}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rr.Code, rr.Body)
	}
}

func TestProcessFileErrors(t *testing.T) {
	f := newFixture(t, nil)
	points := `"data_points":[{"stock_id":"A","timestamp":"01-01-2024","stock_price":1}],"predicted_data_points":[]`
	cases := []struct {
		name     string
		exchange string
		code     int
	}{
		{"parent", `..`, http.StatusBadRequest},
		{"parent subdir", `../x`, http.StatusBadRequest},
		{"absolute", `/tmp`, http.StatusBadRequest},
		{"backslash", `a\\b`, http.StatusBadRequest},
		{"empty", ``, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.post("/process_file/", `{"exchange_name":"`+tc.exchange+`",`+points+`}`)
			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, rr.Code, rr.Body)
			}
		})
	}

	parent := filepath.Dir(f.out)
	for _, p := range []string{
		filepath.Join(parent, "combined_output.csv"),
		filepath.Join(parent, "x", "combined_output.csv"),
		filepath.Join(f.out, "combined_output.csv"),
	} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("unexpected file %s (err=%v)", p, err)
		}
	}
	if entries, _ := os.ReadDir(filepath.Join(f.out, "NYSE")); len(entries) != 0 {
		t.Fatalf("unexpected files in output dir: %v", entries)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	rr := httptest.NewRecorder()
	f.e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body)
	}
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, ratelimit.New(1, 0.001))
	body := `{"exchange_name":"NYSE","file_name":"FLKR.csv"}`
	if rr := f.post("/get_data_points/", body); rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}
	if rr := f.post("/get_data_points/", body); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rr.Code)
	}
}

func TestRateLimitSharedAcrossSlashForms(t *testing.T) {
	f := newFixture(t, ratelimit.New(1, 0.001))
	body := `{"exchange_name":"NYSE","file_name":"FLKR.csv"}`
	if rr := f.post("/get_data_points/", body); rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}
	if rr := f.post("/get_data_points", body); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unslashed request: expected 429, got %d", rr.Code)
	}
	// Other routes keep their own bucket.
	if rr := f.post("/process_file", `{"exchange_name":"NYSE","data_points":[],"predicted_data_points":[]}`); rr.Code != http.StatusOK {
		t.Fatalf("other route: expected 200, got %d", rr.Code)
	}
}
