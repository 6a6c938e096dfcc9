package main

import (
	"regexp"
	"strconv"
	"strings"
)

// QuotaSnapshot holds the quota and session fields scraped from a dashboard
// page. Every field is optional: a nil or empty value means the field was
// not present on this particular page, not that it is zero. Snapshots are
// produced whole and swapped into the session state, never patched.
type QuotaSnapshot struct {
	TotalMB       *float64
	RemainingMB   *float64
	LoginTime     string
	SessionTime   string
	RemainingTime string
	Location      string
}

// RemainingPercent returns remaining quota as a percentage of the total.
func (q *QuotaSnapshot) RemainingPercent() (float64, bool) {
	if q == nil || q.TotalMB == nil || q.RemainingMB == nil || *q.TotalMB == 0 {
		return 0, false
	}
	return *q.RemainingMB / *q.TotalMB * 100, true
}

// RemainingGB returns remaining quota in gigabytes.
func (q *QuotaSnapshot) RemainingGB() (float64, bool) {
	if q == nil || q.RemainingMB == nil {
		return 0, false
	}
	return *q.RemainingMB / 1024, true
}

// quotaField pairs a label pattern with its snapshot assignment.
type quotaField struct {
	name   string
	re     *regexp.Regexp
	assign func(q *QuotaSnapshot, value string)
}

// Decimal values use dot or comma as separator depending on locale.
const decimalGroup = `([0-9]+(?:[.,][0-9]+)?)`

// Free-text values run to the end of the flattened line.
const textGroup = `([^\n]+)`

var quotaFields = []quotaField{
	{
		name: "total-quota",
		re:   regexp.MustCompile(`(?i)Toplam Kota \(MB\)\s*:?\s*` + decimalGroup),
		assign: func(q *QuotaSnapshot, v string) {
			if f, ok := parseDecimal(v); ok {
				q.TotalMB = &f
			}
		},
	},
	{
		name: "remaining-quota",
		re:   regexp.MustCompile(`(?i)Toplam Kalan Kota \(MB\)\s*:?\s*` + decimalGroup),
		assign: func(q *QuotaSnapshot, v string) {
			if f, ok := parseDecimal(v); ok {
				q.RemainingMB = &f
			}
		},
	},
	{
		name:   "login-time",
		re:     regexp.MustCompile(`(?i)Giriş Zamanı\s*:?\s*` + textGroup),
		assign: func(q *QuotaSnapshot, v string) { q.LoginTime = strings.TrimSpace(v) },
	},
	{
		name:   "session-time",
		re:     regexp.MustCompile(`(?i)Oturum Süresi\s*:?\s*` + textGroup),
		assign: func(q *QuotaSnapshot, v string) { q.SessionTime = strings.TrimSpace(v) },
	},
	{
		name:   "remaining-time",
		re:     regexp.MustCompile(`(?i)Kalan Süre\s*:?\s*` + textGroup),
		assign: func(q *QuotaSnapshot, v string) { q.RemainingTime = strings.TrimSpace(v) },
	},
	{
		name:   "location",
		re:     regexp.MustCompile(`(?i)Lokasyon\s*:?\s*` + textGroup),
		assign: func(q *QuotaSnapshot, v string) { q.Location = strings.TrimSpace(v) },
	},
}

var markupTagPattern = regexp.MustCompile(`<[^>]*>`)

// flattenHTML strips markup so labels and their values end up on adjacent
// lines even when the portal renders them in separate table cells.
func flattenHTML(html string) string {
	return markupTagPattern.ReplaceAllString(html, "\n")
}

// ExtractQuota scrapes quota/session fields from a dashboard page.
// A field whose pattern does not match is simply absent; that is not an
// error. Matching is order-independent across the document.
func ExtractQuota(html string) *QuotaSnapshot {
	flat := flattenHTML(html)

	snapshot := &QuotaSnapshot{}
	for _, field := range quotaFields {
		if m := field.re.FindStringSubmatch(flat); m != nil {
			field.assign(snapshot, m[1])
		}
	}
	return snapshot
}

func parseDecimal(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
