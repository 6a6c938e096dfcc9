package main

import "testing"

func TestClassifyPage(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		finalURL string
		want     PageClass
	}{
		{
			name:     "dashboard marker lowercase",
			html:     `<div class="panel">oturum bilgileri</div>`,
			finalURL: "https://wifi.gsb.gov.tr/index.html",
			want:     PageDashboard,
		},
		{
			name:     "dashboard marker mixed case mid-document",
			html:     `<html><body><h1>Hoşgeldiniz</h1><td>Kota Bilgileri</td></body></html>`,
			finalURL: "https://wifi.gsb.gov.tr/index.html",
			want:     PageDashboard,
		},
		{
			name:     "terminate control counts as dashboard",
			html:     `<a href="#">Oturumu Sonlandır</a>`,
			finalURL: "https://wifi.gsb.gov.tr/index.html",
			want:     PageDashboard,
		},
		{
			name:     "login error by URL query",
			html:     `<form><input name="j_username"/><input name="j_password"/></form>`,
			finalURL: "https://wifi.gsb.gov.tr/login.html?login_error=1",
			want:     PageLoginError,
		},
		{
			name:     "device limit by body marker",
			html:     `<html>maksimumCihazHakkiDolu sayfası</html>`,
			finalURL: "https://wifi.gsb.gov.tr/index.html",
			want:     PageDeviceLimit,
		},
		{
			name:     "device limit by URL segment",
			html:     `<html><body>bir hata oluştu</body></html>`,
			finalURL: "https://wifi.gsb.gov.tr/maksimumCihazHakkiDolu.html",
			want:     PageDeviceLimit,
		},
		{
			name:     "device limit wins over dashboard markers",
			html:     `<div>Oturum Bilgileri</div><div>maksimumCihazHakkiDolu</div>`,
			finalURL: "https://wifi.gsb.gov.tr/index.html",
			want:     PageDeviceLimit,
		},
		{
			name:     "login error wins over device limit body",
			html:     `maksimumCihazHakkiDolu`,
			finalURL: "https://wifi.gsb.gov.tr/login.html?login_error=1",
			want:     PageLoginError,
		},
		{
			name:     "still on login form",
			html:     `<form><input name="j_username"/><input name="j_password"/></form>`,
			finalURL: "https://wifi.gsb.gov.tr/login.html",
			want:     PageLoginForm,
		},
		{
			name:     "username field alone is not a login form",
			html:     `<input name="j_username"/>`,
			finalURL: "https://wifi.gsb.gov.tr/login.html",
			want:     PageUnclassified,
		},
		{
			name:     "unrecognized page",
			html:     `<html><body>503 Service Unavailable</body></html>`,
			finalURL: "https://wifi.gsb.gov.tr/index.html",
			want:     PageUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyPage(tt.html, tt.finalURL); got != tt.want {
				t.Errorf("ClassifyPage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasActiveSessionHint(t *testing.T) {
	withHint := `<form><input name="j_username"/></form><p>Bu hesap için zaten bir oturum açık.</p>`
	if !hasActiveSessionHint(withHint) {
		t.Error("expected active session hint to be detected")
	}
	if hasActiveSessionHint(`<form><input name="j_username"/></form>`) {
		t.Error("plain login form should not hint at an active session")
	}
}
