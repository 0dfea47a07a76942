package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"storefront/authz"
	"storefront/db"
	"storefront/models"
	"storefront/mq"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UpdateStatus handles PATCH /api/stores/:storeid/orders/:orderid/status.
// Only the lifecycle transitions are allowed; the update is conditioned on
// the current status so concurrent admins cannot double-apply. The
// customer notification is best effort and never fails the update.
func UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !KnownStatus(req.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown status "+req.Status)
		return
	}

	storeID := ps.ByName("storeid")
	orderID := ps.ByName("orderid")

	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"storeId": storeID, "orderId": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		http.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		return
	}

	if !CanTransition(order.Status, req.Status) {
		transitionErr := &InvalidTransitionError{From: order.Status, To: req.Status}
		utils.RespondWithError(w, http.StatusConflict, transitionErr.Error())
		return
	}

	set := bson.M{"status": req.Status, "updatedAt": time.Now()}
	switch req.Status {
	case StatusPaid:
		set["paymentStatus"] = "paid"
	case StatusShipped:
		set["shippingStatus"] = "shipped"
	case StatusCompleted:
		set["shippingStatus"] = "delivered"
	}

	// Conditional on the status we read; a concurrent transition makes
	// this a no-op and the caller gets a conflict.
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"storeId": storeID, "orderId": orderID, "status": order.Status},
		bson.M{"$set": set},
	)
	if err != nil {
		log.Println("UpdateStatus UpdateOne error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Order was updated concurrently; refresh and retry")
		return
	}

	var store models.Store
	if err := db.StoresCollection.FindOne(ctx, bson.M{"storeId": storeID}).Decode(&store); err != nil {
		log.Println("UpdateStatus store lookup error:", err)
	}

	if order.CustomerEmail != "" {
		mq.Emit(ctx, mq.OrderEvent{
			Kind:          mq.OrderStatusChanged,
			OrderID:       order.OrderID,
			StoreName:     store.Name,
			CustomerEmail: order.CustomerEmail,
			Status:        req.Status,
		})
	}

	order.Status = req.Status
	if v, ok := set["paymentStatus"].(string); ok {
		order.PaymentStatus = v
	}
	if v, ok := set["shippingStatus"].(string); ok {
		order.ShippingStatus = v
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}
