package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"paytrack/internal/core"
	"paytrack/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	client := sanitizeInput(r.Form.Get("client"))
	service := sanitizeInput(r.Form.Get("service"))
	amountStr := r.Form.Get("amount")

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount: enter zero or a positive value</div>`))
		return
	}

	p, err := core.NewPayment(client, service, core.Money{Cents: cents}, time.Now().In(s.loc))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid payment: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	if err := s.appender.Append(r.Context(), p); err != nil {
		slog.ErrorContext(r.Context(), "Payment append error", "error", err, "client", p.Client, "amount_cents", p.Amount.Cents)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Could not save the payment</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"payment:created": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Payment saved: ` +
		template.HTMLEscapeString(p.Client) +
		` — ` + template.HTMLEscapeString(formatUSD(p.Amount.Cents)) +
		` (` + template.HTMLEscapeString(p.Service) + `)</div>`))
}

// handleReport renders the report partial: KPI tiles, the filtered record
// table, per-client and per-service bars, and the monthly summary.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	view, err := s.buildReportView(r.Context(), r.URL.Query())
	if err != nil {
		slog.ErrorContext(r.Context(), "Report build error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<section id="report"><div class="error">Could not load records</div></section>`))
		return
	}
	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="report"><div class="placeholder">Total: ` + view.Total + `</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "report.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "report.html")
		_, _ = w.Write([]byte(`<section id="report"><div class="error">Could not render report</div></section>`))
	}
}

func (s *Server) handleExportFull(w http.ResponseWriter, r *http.Request) {
	records, err := s.loader.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export load error", "error", err)
		http.Error(w, "could not load records", http.StatusInternalServerError)
		return
	}
	s.serveWorkbook(w, r, records, "payments_records.xlsx")
}

func (s *Server) handleExportFiltered(w http.ResponseWriter, r *http.Request) {
	records, err := s.loader.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export load error", "error", err)
		http.Error(w, "could not load records", http.StatusInternalServerError)
		return
	}
	f := parseFilters(r.URL.Query(), s.loc)
	filtered := report.Filter(records, f.from, f.to, f.client, f.service)
	s.serveWorkbook(w, r, filtered, "payments_filtered.xlsx")
}

func (s *Server) serveWorkbook(w http.ResponseWriter, r *http.Request, records []core.Payment, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := s.exporter.Export(r.Context(), records, w); err != nil {
		// Headers are already out; log and drop the connection state as-is.
		slog.ErrorContext(r.Context(), "Workbook export error", "error", err, "filename", filename, "records", len(records))
	}
}

type filters struct {
	from, to        time.Time
	client, service string
}

func parseFilters(q url.Values, loc *time.Location) filters {
	return filters{
		from:    parseDate(q.Get("from"), loc),
		to:      parseDate(q.Get("to"), loc),
		client:  sanitizeInput(q.Get("client")),
		service: sanitizeInput(q.Get("service")),
	}
}

type (
	recordRow struct {
		Client, Service, Amount, LoggedAt string
	}

	barRow struct {
		Name, Amount string
		Width        int
	}

	reportView struct {
		From, To, Client, Service string
		Clients, Services         []string

		Empty        bool
		Count        int
		Total        string
		Average      string
		CurrentMonth string
		MonthKey     string

		Rows        []recordRow
		ClientBars  []barRow
		ServiceBars []barRow
		Months      []barRow

		ExportQuery template.URL
	}
)

func (s *Server) buildReportView(ctx context.Context, q url.Values) (reportView, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return reportView{}, err
	}

	f := parseFilters(q, s.loc)
	filtered := report.Filter(records, f.from, f.to, f.client, f.service)
	now := time.Now().In(s.loc)
	kpis := report.Summarize(filtered, now)
	// The hero tile covers the whole store regardless of the period filter
	monthTotal := report.MonthTotal(records, now.Year(), now.Month())

	view := reportView{
		From:         q.Get("from"),
		To:           q.Get("to"),
		Client:       f.client,
		Service:      f.service,
		Clients:      report.Distinct(records, report.ByClient),
		Services:     report.Distinct(records, report.ByService),
		Empty:        len(filtered) == 0,
		Count:        kpis.Count,
		Total:        formatUSD(kpis.Total.Cents),
		Average:      formatUSD(kpis.Average.Cents),
		CurrentMonth: formatUSD(monthTotal.Cents),
		MonthKey:     now.Format("2006-01"),
		ClientBars:   toBars(report.GroupBy(filtered, report.ByClient)),
		ServiceBars:  toBars(report.GroupBy(filtered, report.ByService)),
		Months:       toBars(report.GroupBy(records, report.ByMonth)),
		ExportQuery:  template.URL(exportQuery(q)),
	}
	for _, rec := range filtered {
		view.Rows = append(view.Rows, recordRow{
			Client:   rec.Client,
			Service:  rec.Service,
			Amount:   formatUSD(rec.Amount.Cents),
			LoggedAt: rec.LoggedAt.Format("2006-01-02 15:04"),
		})
	}
	return view, nil
}

// toBars turns grouped totals into rows with widths scaled to the largest
// bucket, the same progress-bar rendering used for every chart.
func toBars(groups []report.GroupTotal) []barRow {
	var maxCents int64
	for _, g := range groups {
		if g.Total.Cents > maxCents {
			maxCents = g.Total.Cents
		}
	}
	bars := make([]barRow, 0, len(groups))
	for _, g := range groups {
		width := 0
		if maxCents > 0 && g.Total.Cents > 0 {
			width = int((g.Total.Cents*100 + maxCents/2) / maxCents) // rounded percent
			if width > 0 && width < 2 {                              // ensure visibility for very small values
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		bars = append(bars, barRow{Name: g.Key, Amount: formatUSD(g.Total.Cents), Width: width})
	}
	return bars
}

func exportQuery(q url.Values) string {
	out := url.Values{}
	for _, key := range []string{"from", "to", "client", "service"} {
		if v := q.Get(key); v != "" {
			out.Set(key, v)
		}
	}
	return out.Encode()
}
