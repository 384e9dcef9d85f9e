package trips

import (
	"bytes"
	"fmt"
	"net/http"
	"os"

	"bena/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

func shareBaseURL() string {
	if url := os.Getenv("SHARE_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// GET /api/trips/:tripid/export
// Renders the itinerary as a PDF with a QR code pointing at the share link.
func ExportTripPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	trip, err := service.One(ctx, ps.ByName("tripid"))
	if err != nil {
		respondError(w, err)
		return
	}

	shareURL := fmt.Sprintf("%s/share/trip/%s", shareBaseURL(), trip.TripID)
	qrPNG, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, trip.Title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%s - %s",
		trip.StartDate.Format("Jan 2, 2006"), trip.EndDate.Format("Jan 2, 2006")))
	pdf.Ln(8)
	if trip.Description != "" {
		pdf.MultiCell(0, 6, trip.Description, "", "", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Itinerary")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	for _, step := range trip.Steps {
		name := step.PlaceID
		address := ""
		if step.Place != nil {
			name = step.Place.Name
			address = step.Place.Address
		}
		pdf.Cell(0, 7, fmt.Sprintf("%d. %s", step.StepNum, name))
		pdf.Ln(6)
		if address != "" {
			pdf.SetTextColor(100, 100, 100)
			pdf.Cell(0, 6, "    "+address)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(7)
		}
	}

	pdf.Ln(6)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("share-qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s.pdf"`, trip.TripID))
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
	}
}
