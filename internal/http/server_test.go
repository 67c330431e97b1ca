package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"paytrack/internal/core"
	"paytrack/internal/store/memory"
	"paytrack/internal/store/xlsx"
)

func newTestServer(t *testing.T, seed ...core.Payment) (*Server, *memory.Store) {
	t.Helper()
	st := memory.New(seed...)
	srv := NewServer(":0", st, st, xlsx.Exporter{}, time.UTC)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv, st
}

func seedPayment(client, service string, cents int64, day string) core.Payment {
	at, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return core.Payment{Client: client, Service: service, Amount: core.Money{Cents: cents}, LoggedAt: at}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s expected 200, got %d", path, rec.Code)
		}
	}
}

func TestIndexRenders(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Payments Tracker") {
		t.Fatal("index page missing title")
	}
}

func TestCreatePayment(t *testing.T) {
	srv, st := newTestServer(t)

	form := url.Values{"client": {"Acme"}, "service": {"web"}, "amount": {"123.45"}}
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Payment saved") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	records, err := st.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Amount.Cents != 12345 {
		t.Fatalf("expected one stored record of 12345 cents, got %v", records)
	}
}

func TestCreatePaymentRejectsInvalid(t *testing.T) {
	srv, st := newTestServer(t)
	cases := []url.Values{
		{"client": {""}, "service": {"web"}, "amount": {"10"}},
		{"client": {"Acme"}, "service": {""}, "amount": {"10"}},
		{"client": {"Acme"}, "service": {"web"}, "amount": {"-10"}},
		{"client": {"Acme"}, "service": {"web"}, "amount": {"abc"}},
	}
	for i, form := range cases {
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("case %d expected 422, got %d", i, rec.Code)
		}
	}
	records, _ := st.Load(context.Background())
	if len(records) != 0 {
		t.Fatalf("no record should be created, got %d", len(records))
	}
}

func TestReportPartial(t *testing.T) {
	srv, _ := newTestServer(t,
		seedPayment("A", "web", 10000, "2024-01-05"),
		seedPayment("B", "design", 5000, "2024-02-10"),
	)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/report?from=2024-01-01&to=2024-01-31", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "$100.00") {
		t.Fatalf("expected January total in body: %s", body)
	}
	if strings.Contains(body, "<td>B</td>") {
		t.Fatal("February record must be filtered out of the table")
	}
	// Dropdowns list every known client regardless of the filter
	if !strings.Contains(body, `value="B"`) {
		t.Fatal("client dropdown should include B")
	}
}

func TestReportPartialEmptyState(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ui/report", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty store, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No records") {
		t.Fatal("expected empty state message")
	}
}

func TestExportFull(t *testing.T) {
	srv, _ := newTestServer(t, seedPayment("A", "web", 10000, "2024-01-05"))

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/full", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type %q", got)
	}
	if body := rec.Body.Bytes(); len(body) < 2 || body[0] != 'P' || body[1] != 'K' {
		t.Fatal("expected a zip-based workbook body")
	}
}

func TestExportFilteredAppliesQuery(t *testing.T) {
	srv, _ := newTestServer(t,
		seedPayment("A", "web", 10000, "2024-01-05"),
		seedPayment("B", "design", 5000, "2024-02-10"),
	)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/filtered?client=A", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "payments_filtered.xlsx") {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{12345, "$123.45"},
		{123456, "$1,234.56"},
		{123456789, "$1,234,567.89"},
		{-9900, "-$99.00"},
	}
	for _, tc := range cases {
		if got := formatUSD(tc.cents); got != tc.want {
			t.Fatalf("formatUSD(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
