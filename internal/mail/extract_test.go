package mail

import (
	"strings"
	"testing"
)

func TestExtractBodyPlainText(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: notifications@wealthsimple.com",
		"To: someone@gmail.com",
		"Subject: Your order has been filled",
		"Content-Type: text/plain",
		"",
		"Account: RRSP",
		"Quantity: 0.5",
	}, "\r\n"))

	got := ExtractBody(raw)
	if !strings.Contains(got, "Account: RRSP") {
		t.Errorf("missing account line in %q", got)
	}
	if !strings.Contains(got, "Quantity: 0.5") {
		t.Errorf("missing quantity line in %q", got)
	}
}

func TestExtractBodyHTMLOnly(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: notifications@wealthsimple.com",
		"Subject: Your order has been filled",
		"Content-Type: text/html",
		"",
		"<html><body>",
		"<div><b>Account:</b> RRSP</div>",
		"<div><b>Quantity:</b> 0.5</div>",
		"</body></html>",
	}, "\r\n"))

	got := ExtractBody(raw)

	if strings.Contains(got, "<") {
		t.Errorf("tags survived stripping: %q", got)
	}

	// Element boundaries must become line boundaries so the
	// key/value scanner sees one field per line.
	var accountLine, quantityLine bool
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "Account:") {
			accountLine = true
		}
		if strings.HasPrefix(strings.TrimSpace(line), "Quantity:") {
			quantityLine = true
		}
	}
	if !accountLine || !quantityLine {
		t.Errorf("fields not line-separated: %q", got)
	}
}

func TestExtractBodyMultipartPrefersPlainText(t *testing.T) {
	t.Parallel()

	raw := []byte(strings.Join([]string{
		"From: notifications@wealthsimple.com",
		"Subject: Your order has been filled",
		"Content-Type: multipart/alternative; boundary=b123",
		"",
		"--b123",
		"Content-Type: text/html",
		"",
		"<p>Account: HTML-VERSION</p>",
		"--b123",
		"Content-Type: text/plain",
		"",
		"Account: PLAIN-VERSION",
		"--b123--",
	}, "\r\n"))

	got := ExtractBody(raw)
	if !strings.Contains(got, "PLAIN-VERSION") {
		t.Errorf("plain part not chosen: %q", got)
	}
	if strings.Contains(got, "HTML-VERSION") {
		t.Errorf("html part leaked into output: %q", got)
	}
}

func TestExtractBodyUnparseableFallsBackToRaw(t *testing.T) {
	t.Parallel()

	raw := []byte("just some text with no headers at all\nAccount: RRSP")

	got := ExtractBody(raw)
	if !strings.Contains(got, "Account: RRSP") {
		t.Errorf("raw fallback lost content: %q", got)
	}
}

func TestStripHTMLEntities(t *testing.T) {
	t.Parallel()

	got := stripHTML("<p>Johnson &amp; Johnson</p><p>5 &gt; 4</p>")
	if !strings.Contains(got, "Johnson & Johnson") {
		t.Errorf("entity not decoded: %q", got)
	}
	if !strings.Contains(got, "5 > 4") {
		t.Errorf("entity not decoded: %q", got)
	}
}
