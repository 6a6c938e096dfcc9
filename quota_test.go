package main

import "testing"

const dashboardTablePage = `<html><body>
<h2>Oturum Bilgileri</h2>
<table>
<tr><td>Giriş Zamanı</td><td>01.09.2026 08:15</td></tr>
<tr><td>Oturum Süresi</td><td>02:30:00</td></tr>
<tr><td>Kalan Süre</td><td>21:30:00</td></tr>
<tr><td>Lokasyon</td><td>Ankara Öğrenci Yurdu</td></tr>
</table>
<h2>Kota Bilgileri</h2>
<table>
<tr><td>Toplam Kota (MB)</td><td>5000.5</td></tr>
<tr><td>Toplam Kalan Kota (MB)</td><td>1234.25</td></tr>
</table>
</body></html>`

func TestExtractQuotaFromTable(t *testing.T) {
	q := ExtractQuota(dashboardTablePage)

	if q.TotalMB == nil || *q.TotalMB != 5000.5 {
		t.Errorf("TotalMB = %v, want 5000.5", q.TotalMB)
	}
	if q.RemainingMB == nil || *q.RemainingMB != 1234.25 {
		t.Errorf("RemainingMB = %v, want 1234.25", q.RemainingMB)
	}
	if q.LoginTime != "01.09.2026 08:15" {
		t.Errorf("LoginTime = %q", q.LoginTime)
	}
	if q.SessionTime != "02:30:00" {
		t.Errorf("SessionTime = %q", q.SessionTime)
	}
	if q.RemainingTime != "21:30:00" {
		t.Errorf("RemainingTime = %q", q.RemainingTime)
	}
	if q.Location != "Ankara Öğrenci Yurdu" {
		t.Errorf("Location = %q", q.Location)
	}
}

func TestExtractQuotaFieldOrderIndependent(t *testing.T) {
	// Remaining before total, colon-separated, no markup.
	page := "Toplam Kalan Kota (MB): 1234.25\nToplam Kota (MB): 5000.5"
	q := ExtractQuota(page)

	if q.TotalMB == nil || *q.TotalMB != 5000.5 {
		t.Errorf("TotalMB = %v, want 5000.5", q.TotalMB)
	}
	if q.RemainingMB == nil || *q.RemainingMB != 1234.25 {
		t.Errorf("RemainingMB = %v, want 1234.25", q.RemainingMB)
	}
}

func TestExtractQuotaCommaDecimal(t *testing.T) {
	page := `<td>Toplam Kota (MB)</td><td>2048,75</td>`
	q := ExtractQuota(page)

	if q.TotalMB == nil || *q.TotalMB != 2048.75 {
		t.Errorf("TotalMB = %v, want 2048.75", q.TotalMB)
	}
}

func TestExtractQuotaMissingFields(t *testing.T) {
	q := ExtractQuota(`<html><body><td>Lokasyon</td><td>Kampüs</td></body></html>`)

	if q.TotalMB != nil || q.RemainingMB != nil {
		t.Errorf("expected nil quota values, got total=%v remaining=%v", q.TotalMB, q.RemainingMB)
	}
	if q.LoginTime != "" || q.SessionTime != "" || q.RemainingTime != "" {
		t.Error("expected empty time fields")
	}
	if q.Location != "Kampüs" {
		t.Errorf("Location = %q, want Kampüs", q.Location)
	}
}

func TestQuotaDerivedValues(t *testing.T) {
	total, remaining := 2000.0, 512.0
	q := &QuotaSnapshot{TotalMB: &total, RemainingMB: &remaining}

	if pct, ok := q.RemainingPercent(); !ok || pct != 25.6 {
		t.Errorf("RemainingPercent() = %v, %v", pct, ok)
	}
	if gb, ok := q.RemainingGB(); !ok || gb != 0.5 {
		t.Errorf("RemainingGB() = %v, %v", gb, ok)
	}

	empty := &QuotaSnapshot{}
	if _, ok := empty.RemainingPercent(); ok {
		t.Error("RemainingPercent() on empty snapshot should report not ok")
	}
	if _, ok := empty.RemainingGB(); ok {
		t.Error("RemainingGB() on empty snapshot should report not ok")
	}

	zero := 0.0
	zeroTotal := &QuotaSnapshot{TotalMB: &zero, RemainingMB: &remaining}
	if _, ok := zeroTotal.RemainingPercent(); ok {
		t.Error("RemainingPercent() with zero total should report not ok")
	}
}
