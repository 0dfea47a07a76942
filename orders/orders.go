package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"storefront/authz"
	"storefront/customers"
	"storefront/db"
	"storefront/discount"
	"storefront/models"
	"storefront/mq"
	"storefront/pricing"
	"storefront/rdx"
	"storefront/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validate = validator.New()

// CheckoutRequest is the checkout submission body. Items are the cart
// snapshot; totals are recomputed server-side and never trusted from the
// client.
type CheckoutRequest struct {
	CustomerName   string            `json:"customerName" validate:"required"`
	CustomerEmail  string            `json:"customerEmail" validate:"required,email"`
	CustomerPhone  string            `json:"customerPhone" validate:"required"`
	ShippingAddr   string            `json:"shippingAddress" validate:"required"`
	ShippingCity   string            `json:"shippingCity" validate:"required"`
	ShippingPostal string            `json:"shippingPostalCode" validate:"required"`
	PaymentMethod  string            `json:"paymentMethod"`
	DiscountCode   string            `json:"discountCode"`
	Items          []models.CartItem `json:"items" validate:"required,min=1,dive"`
}

// PlaceOrder handles POST /api/store/:subdomain/checkout. It validates the
// payload, re-prices the cart, re-validates the discount code, consumes
// the code's usage atomically, and records the order. Notification is
// fire-and-forget.
func PlaceOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("PlaceOrder decode error:", err)
		http.Error(w, "Invalid order payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields: "+err.Error())
		return
	}

	// Double-submit guard. Clients send a fresh key per checkout attempt.
	if idem := r.Header.Get("Idempotency-Key"); idem != "" {
		ok, err := rdx.RdxSetNX("checkout:idem:"+idem, "1", 10*time.Minute)
		if err != nil {
			log.Println("PlaceOrder idempotency check error:", err)
		} else if !ok {
			utils.RespondWithError(w, http.StatusConflict, "Duplicate checkout submission")
			return
		}
	}

	var store models.Store
	if err := db.StoresCollection.FindOne(ctx, bson.M{"subdomain": ps.ByName("subdomain")}).Decode(&store); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}

	cfg := pricing.FromEnv()

	// Price once without the code to get the subtotal the validator needs.
	base, err := cfg.Compute(req.Items, nil)
	if err != nil {
		var invalid *pricing.InvalidCartItemError
		if errors.As(err, &invalid) {
			utils.RespondWithError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		http.Error(w, "Failed to price order", http.StatusInternalServerError)
		return
	}

	var code *models.DiscountCode
	if req.DiscountCode != "" {
		code, err = discount.FindByCode(ctx, store.StoreID, req.DiscountCode)
		if err == nil {
			err = discount.Validate(code, base.Subtotal, time.Now())
		}
		if err != nil {
			if errors.Is(err, discount.ErrCodeNotFound) || isDiscountRejection(err) {
				utils.RespondWithError(w, http.StatusUnprocessableEntity, discount.UserMessage(err))
				return
			}
			log.Println("PlaceOrder discount lookup error:", err)
			http.Error(w, "Failed to validate discount code", http.StatusInternalServerError)
			return
		}

		// Reserve a use before the order exists so the cap can never be
		// exceeded; released again if the insert fails.
		if err := discount.ConsumeUsage(ctx, store.StoreID, code.Code); err != nil {
			if errors.Is(err, discount.ErrUsageLimitReached) {
				utils.RespondWithError(w, http.StatusUnprocessableEntity, discount.UserMessage(err))
				return
			}
			log.Println("PlaceOrder ConsumeUsage error:", err)
			http.Error(w, "Failed to apply discount code", http.StatusInternalServerError)
			return
		}
	}

	quote, err := cfg.Compute(req.Items, code)
	if err != nil {
		http.Error(w, "Failed to price order", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	order := models.Order{
		OrderID:        "ORD-" + uuid.NewString(),
		StoreID:        store.StoreID,
		Subdomain:      store.Subdomain,
		UserID:         utils.GetUserIDFromRequest(r),
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		ShippingAddr:   req.ShippingAddr,
		ShippingCity:   req.ShippingCity,
		ShippingPostal: req.ShippingPostal,
		Items:          snapshotItems(req.Items, store.StoreID, now),
		Subtotal:       quote.Subtotal,
		Tax:            quote.Tax,
		Shipping:       quote.Shipping,
		Total:          quote.Total,
		Status:         StatusPending,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  "pending",
		ShippingStatus: "pending",
		CreatedAt:      now,
	}
	if code != nil {
		order.Discount = &models.AppliedDiscount{
			Code:   code.Code,
			Kind:   code.Kind,
			Value:  code.Value,
			Amount: quote.DiscountAmount,
		}
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Println("PlaceOrder InsertOne error:", err)
		if code != nil {
			releaseUsage(ctx, store.StoreID, code.Code)
		}
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}

	// Clear the signed-in user's server cart for this store.
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID, "storeId": store.StoreID}); err != nil {
			log.Println("PlaceOrder cart cleanup error:", err)
		}
	}

	// Best effort: the buyer joins the store's customer list.
	if _, err := customers.Upsert(ctx, store.StoreID, order.CustomerEmail, order.CustomerName, order.CustomerPhone); err != nil {
		log.Println("PlaceOrder customer upsert error:", err)
	}

	mq.Emit(ctx, mq.OrderEvent{
		Kind:          mq.OrderCreated,
		OrderID:       order.OrderID,
		StoreName:     store.Name,
		OwnerEmail:    store.OwnerEmail,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
	})

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

func snapshotItems(items []models.CartItem, storeID string, now time.Time) []models.CartItem {
	out := make([]models.CartItem, len(items))
	for i, it := range items {
		it.UserID = ""
		it.StoreID = storeID
		it.AddedAt = now
		out[i] = it
	}
	return out
}

func releaseUsage(ctx context.Context, storeID, code string) {
	_, err := db.DiscountCollection.UpdateOne(ctx,
		bson.M{"storeId": storeID, "code": code, "usageCount": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"usageCount": -1}},
	)
	if err != nil {
		log.Println("releaseUsage error:", err)
	}
}

func isDiscountRejection(err error) bool {
	var belowMin *discount.BelowMinimumError
	return errors.Is(err, discount.ErrNotYetValid) ||
		errors.Is(err, discount.ErrExpired) ||
		errors.Is(err, discount.ErrUsageLimitReached) ||
		errors.As(err, &belowMin)
}


// GetOrders handles GET /api/stores/:storeid/orders for the admin UI,
// newest first.
func GetOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	filter := bson.M{"storeId": storeID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetOrders Find error:", err)
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetOrder handles GET /api/stores/:storeid/orders/:orderid.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		http.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// TrackOrder handles GET /api/store/:subdomain/orders/:orderid/track.
// Public, but requires the order's email to match ?email=.
func TrackOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"orderId":        order.OrderID,
		"status":         order.Status,
		"paymentStatus":  order.PaymentStatus,
		"shippingStatus": order.ShippingStatus,
		"total":          order.Total,
		"createdAt":      order.CreatedAt,
	})
}
