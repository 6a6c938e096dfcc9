package main

import "testing"

func TestExtractViewStateHiddenField(t *testing.T) {
	page := `<form id="loginForm" method="post">
<input type="hidden" name="javax.faces.ViewState" id="j_id1:javax.faces.ViewState:0" value="-1234567890:987654321" autocomplete="off" />
</form>`

	vs, ok := ExtractViewState(page)
	if !ok {
		t.Fatal("expected a viewstate token")
	}
	if vs != "-1234567890:987654321" {
		t.Errorf("viewstate = %q", vs)
	}
}

func TestExtractViewStateCDATAUpdate(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?><partial-response><changes>` +
		`<update id="mainForm:panel"><![CDATA[<div>rendered</div>]]></update>` +
		`<update id="j_id1:javax.faces.ViewState:0"><![CDATA[-42:1337]]></update>` +
		`</changes></partial-response>`

	vs, ok := ExtractViewState(body)
	if !ok {
		t.Fatal("expected a viewstate token")
	}
	if vs != "-42:1337" {
		t.Errorf("viewstate = %q", vs)
	}
}

func TestExtractViewStatePrefersCDATA(t *testing.T) {
	// A partial response can re-render a form containing the hidden field
	// while also carrying the rotated token in its own update block. The
	// update block is the current one.
	body := `<partial-response><changes>` +
		`<update id="mainForm"><![CDATA[<input type="hidden" name="javax.faces.ViewState" value="stale" />]]></update>` +
		`<update id="j_id1:javax.faces.ViewState:0"><![CDATA[fresh]]></update>` +
		`</changes></partial-response>`

	vs, ok := ExtractViewState(body)
	if !ok {
		t.Fatal("expected a viewstate token")
	}
	if vs != "fresh" {
		t.Errorf("viewstate = %q, want the CDATA token", vs)
	}
}

func TestExtractViewStateAbsent(t *testing.T) {
	if vs, ok := ExtractViewState(`<html><body>no state here</body></html>`); ok {
		t.Errorf("unexpected viewstate %q", vs)
	}
}
