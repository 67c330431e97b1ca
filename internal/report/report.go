// Package report computes filtered views, KPIs and chart-ready groupings
// over a set of payment records. All functions are pure: the reference
// time for the current-month KPI is passed in by the caller.
package report

import (
	"sort"
	"time"

	"paytrack/internal/core"
)

const (
	ByClient  GroupKey = "client"
	ByService GroupKey = "service"
	ByMonth   GroupKey = "month"
)

type (
	GroupKey string

	// GroupTotal is one aggregation bucket: a key and the summed amount.
	GroupTotal struct {
		Key   string
		Total core.Money
	}

	// Summary holds the KPI block for a record set.
	Summary struct {
		Total             core.Money
		Count             int
		Average           core.Money
		CurrentMonthTotal core.Money
	}
)

// Filter returns the records whose calendar day falls inside [from, to]
// and that match the client/service filters. Empty client/service means
// no filtering on that field; a zero from/to leaves that side unbounded.
// An inverted range (from after to) matches nothing.
func Filter(records []core.Payment, from, to time.Time, client, service string) []core.Payment {
	if !from.IsZero() && !to.IsZero() && dayOf(from).After(dayOf(to)) {
		return []core.Payment{}
	}
	out := make([]core.Payment, 0, len(records))
	for _, r := range records {
		day := dayOf(r.LoggedAt)
		if !from.IsZero() && day.Before(dayOf(from)) {
			continue
		}
		if !to.IsZero() && day.After(dayOf(to)) {
			continue
		}
		if client != "" && r.Client != client {
			continue
		}
		if service != "" && r.Service != service {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize computes the KPIs for a record set. The current-month total
// covers the calendar year+month of now within the given records.
func Summarize(records []core.Payment, now time.Time) Summary {
	s := Summary{Count: len(records)}
	for _, r := range records {
		s.Total.Cents += r.Amount.Cents
		if r.LoggedAt.Year() == now.Year() && r.LoggedAt.Month() == now.Month() {
			s.CurrentMonthTotal.Cents += r.Amount.Cents
		}
	}
	if s.Count > 0 {
		s.Average.Cents = s.Total.Cents / int64(s.Count)
	}
	return s
}

// MonthTotal sums the amounts logged in the given calendar year+month.
func MonthTotal(records []core.Payment, year int, month time.Month) core.Money {
	var total core.Money
	for _, r := range records {
		if r.LoggedAt.Year() == year && r.LoggedAt.Month() == month {
			total.Cents += r.Amount.Cents
		}
	}
	return total
}

// GroupBy aggregates record amounts per key. Client and service groupings
// are ordered by descending total (key name breaks ties); the month
// grouping is chronological.
func GroupBy(records []core.Payment, key GroupKey) []GroupTotal {
	totals := map[string]int64{}
	for _, r := range records {
		totals[bucketOf(r, key)] += r.Amount.Cents
	}
	out := make([]GroupTotal, 0, len(totals))
	for k, cents := range totals {
		out = append(out, GroupTotal{Key: k, Total: core.Money{Cents: cents}})
	}
	if key == ByMonth {
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return out
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Distinct returns the sorted unique values of the given field. The month
// key is not supported here; dropdown filters only exist for client and
// service.
func Distinct(records []core.Payment, key GroupKey) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, r := range records {
		v := bucketOf(r, key)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func bucketOf(r core.Payment, key GroupKey) string {
	switch key {
	case ByService:
		return r.Service
	case ByMonth:
		return r.YearMonth()
	default:
		return r.Client
	}
}

// dayOf truncates a timestamp to its calendar day as seen in its own
// location, so range checks compare dates the way a user reads them.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
