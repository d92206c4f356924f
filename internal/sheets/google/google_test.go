package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wagewise/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSpreadsheet answers the handful of Sheets API calls the client makes,
// keeping a single sheet named "Ledger" with id 0.
type fakeSpreadsheet struct {
	mu           sync.Mutex
	rows         [][]string
	batchUpdates int
	sentSheetID  bool
}

func (f *fakeSpreadsheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		values := make([][]any, 0, len(f.rows))
		for _, row := range f.rows {
			if len(row) == 0 {
				values = append(values, []any{})
				continue
			}
			values = append(values, []any{row[0]})
		}
		json.NewEncoder(w).Encode(map[string]any{"majorDimension": "ROWS", "values": values})

	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		n, ok := rowNumber(rng)
		if !ok {
			http.Error(w, "bad range "+rng, http.StatusBadRequest)
			return
		}
		var vr struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil || len(vr.Values) != 1 {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		for len(f.rows) < n {
			f.rows = append(f.rows, nil)
		}
		row := make([]string, len(vr.Values[0]))
		for i, v := range vr.Values[0] {
			row[i] = fmt.Sprint(v)
		}
		f.rows[n-1] = row
		json.NewEncoder(w).Encode(map[string]any{"updatedRows": 1})

	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-1"):
		json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": "sheet-1",
			"sheets": []any{
				map[string]any{"properties": map[string]any{"sheetId": 0, "title": "Ledger"}},
			},
		})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var body struct {
			Requests []struct {
				DeleteDimension struct {
					Range struct {
						SheetID    *int64 `json:"sheetId"`
						StartIndex int64  `json:"startIndex"`
						EndIndex   int64  `json:"endIndex"`
					} `json:"range"`
				} `json:"deleteDimension"`
			} `json:"requests"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Requests) != 1 {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.batchUpdates++
		rng := body.Requests[0].DeleteDimension.Range
		f.sentSheetID = rng.SheetID != nil && *rng.SheetID == 0
		f.rows = append(f.rows[:rng.StartIndex], f.rows[rng.EndIndex:]...)
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})

	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func (f *fakeSpreadsheet) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.rows))
	for i, row := range f.rows {
		if len(row) > 0 {
			out[i] = row[0]
		}
	}
	return out
}

// rowNumber extracts the first row number from an A1 range like "Ledger!A5:I5".
func rowNumber(rng string) (int, bool) {
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		rng = rng[i+1:]
	}
	if i := strings.Index(rng, ":"); i >= 0 {
		rng = rng[:i]
	}
	n, err := strconv.Atoi(strings.TrimLeft(rng, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func newTestClient(t *testing.T) (*Client, *fakeSpreadsheet) {
	t.Helper()
	fake := &fakeSpreadsheet{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewWithService(svc, "sheet-1", ""), fake
}

func sampleTx(id, category string) core.Transaction {
	return core.Transaction{
		ID:           id,
		UserID:       "user-1",
		Type:         core.Expense,
		Amount:       decimal.RequireFromString("12.50"),
		Category:     category,
		Date:         "2024-05-02",
		Note:         "lunch",
		CurrencyCode: "EUR",
		CreatedAt:    time.Date(2024, 5, 2, 13, 0, 0, 0, time.UTC),
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), Options{SpreadsheetID: "sheet-1"})
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{
		SpreadsheetID:      "sheet-1",
		ServiceAccountFile: t.TempDir() + "/missing.json",
	})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestNewWithService_DefaultSheetName(t *testing.T) {
	c := NewWithService(nil, "id", "  ")
	if c.sheetName != DefaultSheetName {
		t.Errorf("sheetName = %q, want %q", c.sheetName, DefaultSheetName)
	}
}

func TestClient_UpsertWritesHeaderThenRows(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	if err := c.UpsertTransaction(ctx, sampleTx("tx-1", "Food")); err != nil {
		t.Fatalf("upsert tx-1: %v", err)
	}
	if err := c.UpsertTransaction(ctx, sampleTx("tx-2", "Rent")); err != nil {
		t.Fatalf("upsert tx-2: %v", err)
	}

	got := fake.ids()
	want := []string{"ID", "tx-1", "tx-2"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if fake.rows[1][3] != "Food" || fake.rows[1][4] != "12.5" {
		t.Errorf("unexpected row contents: %v", fake.rows[1])
	}
}

func TestClient_UpsertReplacesExistingRow(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_ = c.UpsertTransaction(ctx, sampleTx("tx-1", "Food"))
	_ = c.UpsertTransaction(ctx, sampleTx("tx-2", "Rent"))
	if err := c.UpsertTransaction(ctx, sampleTx("tx-1", "Groceries")); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	if n := len(fake.ids()); n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
	if fake.rows[1][3] != "Groceries" {
		t.Errorf("row 2 category = %q, want Groceries", fake.rows[1][3])
	}
}

func TestClient_UpsertValidates(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: DefaultSheetName} // svc is nil

	bad := sampleTx("tx-1", "Food")
	bad.Amount = decimal.Zero
	err := c.UpsertTransaction(context.Background(), bad)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClient_DeleteRemovesRow(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_ = c.UpsertTransaction(ctx, sampleTx("tx-1", "Food"))
	_ = c.UpsertTransaction(ctx, sampleTx("tx-2", "Rent"))

	if err := c.DeleteTransaction(ctx, "tx-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := fake.ids()
	if strings.Join(got, ",") != "ID,tx-2" {
		t.Fatalf("ids after delete = %v", got)
	}
	if !fake.sentSheetID {
		t.Error("sheetId 0 must be sent explicitly")
	}
}

func TestClient_DeleteUnknownIsNoop(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	_ = c.UpsertTransaction(ctx, sampleTx("tx-1", "Food"))

	for _, id := range []string{"missing", "ID"} {
		if err := c.DeleteTransaction(ctx, id); err != nil {
			t.Fatalf("delete %q: %v", id, err)
		}
	}
	if fake.batchUpdates != 0 {
		t.Errorf("expected no batch updates, got %d", fake.batchUpdates)
	}
}

func TestClient_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetName: DefaultSheetName}
	if err := c.DeleteTransaction(context.Background(), "x"); err == nil {
		t.Error("expected error with nil service")
	}
	if err := c.UpsertTransaction(context.Background(), sampleTx("x", "Food")); err == nil {
		t.Error("expected error with nil service")
	}
}

func TestRowValues(t *testing.T) {
	got := rowValues(sampleTx("tx-9", "Food"))
	want := []any{"tx-9", "2024-05-02", "expense", "Food", "12.5", "EUR", "lunch", "user-1", "2024-05-02T13:00:00Z"}
	if len(got) != len(header) {
		t.Fatalf("row has %d columns, header has %d", len(got), len(header))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, got[i], want[i])
		}
	}
}
