package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"storefront/authz"
	"storefront/db"
	"storefront/models"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func trackingSecret() []byte {
	if s := os.Getenv("TRACKING_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("storefront_tracking_secret")
}

// trackingPayload returns a signed payload string: orderID|email|signature.
// Scanning the QR at the door proves the tracking link was issued by us.
func trackingPayload(orderID, email string) string {
	data := fmt.Sprintf("%s|%s", orderID, email)
	h := hmac.New(sha256.New, trackingSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyTrackingPayload checks the signature on a scanned payload and
// returns the order id it names.
func VerifyTrackingPayload(payload string) (string, error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed tracking payload")
	}
	orderID, email, sig := parts[0], parts[1], parts[2]

	data := fmt.Sprintf("%s|%s", orderID, email)
	h := hmac.New(sha256.New, trackingSecret())
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", fmt.Errorf("invalid tracking signature")
	}
	return orderID, nil
}


// TrackingQR handles GET /api/store/:subdomain/orders/:orderid/qr. Returns
// a PNG QR code embedding the signed tracking payload.
func TrackingQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	email := r.URL.Query().Get("email")
	if email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{
		"subdomain":     ps.ByName("subdomain"),
		"orderId":       ps.ByName("orderid"),
		"customerEmail": email,
	}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	png, err := qrcode.Encode(trackingPayload(order.OrderID, order.CustomerEmail), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// PrintInvoice handles GET /api/stores/:storeid/orders/:orderid/invoice
// for the admin UI.
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"storeId": storeID, "orderId": ps.ByName("orderid")}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	var store models.Store
	_ = db.StoresCollection.FindOne(ctx, bson.M{"storeId": storeID}).Decode(&store)

	qrPNG, err := qrcode.Encode(trackingPayload(order.OrderID, order.CustomerEmail), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	// Create PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Invoice - %s", store.Name))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Customer: %s <%s>", order.CustomerName, order.CustomerEmail))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Placed: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 8, "Item")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(40, 8, "Price")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, item := range order.Items {
		pdf.Cell(100, 8, item.Title)
		pdf.Cell(30, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(40, 8, fmt.Sprintf("R%.2f", item.UnitPrice))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.Cell(0, 8, fmt.Sprintf("Subtotal: R%.2f", order.Subtotal))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("VAT: R%.2f", order.Tax))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Shipping: R%.2f", order.Shipping))
	pdf.Ln(8)
	if order.Discount != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Discount (%s): -R%.2f", order.Discount.Code, order.Discount.Amount))
		pdf.Ln(8)
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: R%.2f", order.Total))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
