// Package share renders the public share surface for a trip: an HTML
// page whose Open Graph tags make chat previews work, which then
// redirects into the app via a deep link, plus a QR image of the link.
package share

import (
	"fmt"
	"net/http"
	"os"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
)

func deepLink(tripID string) string {
	scheme := os.Getenv("APP_SCHEME")
	if scheme == "" {
		scheme = "myapp"
	}
	return fmt.Sprintf("%s://mytrips/%s", scheme, tripID)
}

const sharePage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">

    <!-- Open Graph metadata for link preview -->
    <meta property="og:title" content="Check out this trip!" />
    <meta property="og:description" content="Join me on this amazing trip. Tap the link to open it in Bena!" />
    <meta name="twitter:card" content="summary_large_image" />

    <!-- Redirect -->
    <meta http-equiv="refresh" content="0;url=%s" />
    <title>Redirecting...</title>
</head>
<body>
    <p>If you are not redirected automatically, <a href="%s">click here</a>.</p>
</body>
</html>
`

// GET /share/trip/:tripid
func ShareTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	link := deepLink(ps.ByName("tripid"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, sharePage, link, link)
}

// GET /share/trip/:tripid/qr
func ShareTripQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	png, err := qrcode.Encode(deepLink(ps.ByName("tripid")), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
