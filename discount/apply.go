package discount

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"storefront/db"
	"storefront/models"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type ApplyRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

type ApplyResponse struct {
	Valid    bool                 `json:"valid"`
	Message  string               `json:"message"`
	Discount *models.DiscountCode `json:"discount,omitempty"`
}

// ApplyCode handles POST /api/store/:subdomain/discount/apply. It only
// validates; the usage count is consumed at order placement.
func ApplyCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if Normalize(req.Code) == "" {
		utils.RespondWithJSON(w, http.StatusOK, ApplyResponse{Valid: false, Message: "No discount code provided"})
		return
	}

	var store models.Store
	if err := db.StoresCollection.FindOne(ctx, bson.M{"subdomain": ps.ByName("subdomain")}).Decode(&store); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}

	rec, err := FindByCode(ctx, store.StoreID, req.Code)
	if err != nil && !errors.Is(err, ErrCodeNotFound) {
		log.Println("ApplyCode lookup error:", err)
		http.Error(w, "Failed to look up code", http.StatusInternalServerError)
		return
	}

	if err == nil {
		err = Validate(rec, req.Subtotal, time.Now())
	}
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, ApplyResponse{Valid: false, Message: UserMessage(err)})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ApplyResponse{
		Valid:    true,
		Message:  "Discount code applied",
		Discount: rec,
	})
}

// UserMessage maps a validation error to the storefront-facing text.
func UserMessage(err error) string {
	var belowMin *BelowMinimumError
	switch {
	case errors.Is(err, ErrCodeNotFound):
		return "Invalid discount code"
	case errors.Is(err, ErrNotYetValid):
		return "This discount code is not yet valid"
	case errors.Is(err, ErrExpired):
		return "This discount code has expired"
	case errors.As(err, &belowMin):
		return belowMin.Error()
	case errors.Is(err, ErrUsageLimitReached):
		return "This discount code has reached its usage limit"
	default:
		return "Failed to apply discount code"
	}
}
