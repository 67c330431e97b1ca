package report

import (
	"testing"
	"time"

	"paytrack/internal/core"
)

func pay(client, service string, cents int64, day string) core.Payment {
	at, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return core.Payment{Client: client, Service: service, Amount: core.Money{Cents: cents}, LoggedAt: at}
}

func date(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t
}

// Sample set from the reporting contract: one January and one February record.
var sample = []core.Payment{
	pay("A", "web", 10000, "2024-01-05"),
	pay("B", "design", 5000, "2024-02-10"),
}

func TestFilterDateRange(t *testing.T) {
	got := Filter(sample, date("2024-01-01"), date("2024-01-31"), "", "")
	if len(got) != 1 || got[0].Client != "A" {
		t.Fatalf("expected only January record, got %v", got)
	}
}

func TestFilterInclusiveBounds(t *testing.T) {
	got := Filter(sample, date("2024-01-05"), date("2024-02-10"), "", "")
	if len(got) != 2 {
		t.Fatalf("expected both records on the boundary days, got %d", len(got))
	}
}

func TestFilterInvertedRangeIsEmpty(t *testing.T) {
	got := Filter(sample, date("2024-03-01"), date("2024-01-01"), "", "")
	if len(got) != 0 {
		t.Fatalf("expected empty result for inverted range, got %d", len(got))
	}
}

func TestFilterByClientAndService(t *testing.T) {
	cases := []struct {
		client, service string
		want            int
	}{
		{"A", "", 1},
		{"", "design", 1},
		{"A", "design", 0},
		{"", "", 2},
		{"missing", "", 0},
	}
	for i, tc := range cases {
		got := Filter(sample, time.Time{}, time.Time{}, tc.client, tc.service)
		if len(got) != tc.want {
			t.Fatalf("case %d expected %d records, got %d", i, tc.want, len(got))
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, date("2024-01-15"))
	if s.Total.Cents != 0 || s.Count != 0 || s.Average.Cents != 0 || s.CurrentMonthTotal.Cents != 0 {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	now := date("2024-01-15")
	s := Summarize(sample, now)
	if s.Total.Cents != 15000 {
		t.Fatalf("expected total 15000, got %d", s.Total.Cents)
	}
	if s.Count != 2 {
		t.Fatalf("expected count 2, got %d", s.Count)
	}
	if s.Average.Cents != 7500 {
		t.Fatalf("expected average 7500, got %d", s.Average.Cents)
	}
	if s.CurrentMonthTotal.Cents != 10000 {
		t.Fatalf("expected current month 10000, got %d", s.CurrentMonthTotal.Cents)
	}
}

func TestSummarizeFilteredExample(t *testing.T) {
	filtered := Filter(sample, date("2024-01-01"), date("2024-01-31"), "", "")
	s := Summarize(filtered, date("2024-06-01"))
	if s.Total.Cents != 10000 || s.Count != 1 || s.Average.Cents != 10000 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestMonthTotal(t *testing.T) {
	if got := MonthTotal(sample, 2024, time.February); got.Cents != 5000 {
		t.Fatalf("expected 5000, got %d", got.Cents)
	}
	if got := MonthTotal(sample, 2023, time.February); got.Cents != 0 {
		t.Fatalf("expected 0 for other year, got %d", got.Cents)
	}
}

func TestGroupByClientOrderAndSum(t *testing.T) {
	records := append([]core.Payment{}, sample...)
	records = append(records,
		pay("B", "design", 20000, "2024-03-01"),
		pay("C", "web", 5000, "2024-03-02"),
	)

	groups := GroupBy(records, ByClient)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	// Descending by total; A=10000, B=25000, C=5000
	wantOrder := []string{"B", "A", "C"}
	var sum int64
	for i, g := range groups {
		if g.Key != wantOrder[i] {
			t.Fatalf("position %d expected %q, got %q", i, wantOrder[i], g.Key)
		}
		sum += g.Total.Cents
	}
	if total := Summarize(records, date("2024-01-01")).Total.Cents; sum != total {
		t.Fatalf("group totals %d do not add up to KPI total %d", sum, total)
	}
}

func TestGroupByClientTieBrokenByName(t *testing.T) {
	records := []core.Payment{
		pay("Z", "web", 100, "2024-01-01"),
		pay("A", "web", 100, "2024-01-02"),
	}
	groups := GroupBy(records, ByClient)
	if groups[0].Key != "A" || groups[1].Key != "Z" {
		t.Fatalf("expected deterministic tie order A,Z, got %v", groups)
	}
}

func TestGroupByMonthChronological(t *testing.T) {
	records := []core.Payment{
		pay("A", "web", 100, "2024-03-10"),
		pay("A", "web", 200, "2024-01-05"),
		pay("B", "web", 300, "2024-01-20"),
	}
	groups := GroupBy(records, ByMonth)
	if len(groups) != 2 {
		t.Fatalf("expected 2 month buckets, got %d", len(groups))
	}
	if groups[0].Key != "2024-01" || groups[0].Total.Cents != 500 {
		t.Fatalf("unexpected first bucket %+v", groups[0])
	}
	if groups[1].Key != "2024-03" || groups[1].Total.Cents != 100 {
		t.Fatalf("unexpected second bucket %+v", groups[1])
	}
}

func TestDistinct(t *testing.T) {
	records := []core.Payment{
		pay("B", "web", 1, "2024-01-01"),
		pay("A", "web", 1, "2024-01-02"),
		pay("B", "design", 1, "2024-01-03"),
	}
	clients := Distinct(records, ByClient)
	if len(clients) != 2 || clients[0] != "A" || clients[1] != "B" {
		t.Fatalf("unexpected clients %v", clients)
	}
	services := Distinct(records, ByService)
	if len(services) != 2 || services[0] != "design" || services[1] != "web" {
		t.Fatalf("unexpected services %v", services)
	}
}
