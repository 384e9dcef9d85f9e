package share

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestShareTripRendersRedirectPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/share/trip/abc123", nil)
	rec := httptest.NewRecorder()

	ShareTrip(rec, req, httprouter.Params{{Key: "tripid", Value: "abc123"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %s, want text/html", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `property="og:title"`) {
		t.Error("missing Open Graph title meta")
	}
	if !strings.Contains(body, "myapp://mytrips/abc123") {
		t.Error("missing deep link to the trip")
	}
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("missing refresh redirect")
	}
}

func TestShareTripQRReturnsPNG(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/share/trip/abc123/qr", nil)
	rec := httptest.NewRecorder()

	ShareTripQR(rec, req, httprouter.Params{{Key: "tripid", Value: "abc123"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %s, want image/png", ct)
	}
	// PNG magic bytes
	body := rec.Body.Bytes()
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("response is not a PNG image")
	}
}
