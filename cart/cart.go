package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"storefront/db"
	"storefront/models"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddToCart increments quantity if the item exists, or inserts a new CartItem.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// Must be logged in
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	item.UserID = userID

	// Validate required fields
	if item.ProductID == "" || item.StoreID == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	// Upsert: increment quantity if same user/store/product exists
	filter := bson.M{
		"userId":    item.UserID,
		"storeId":   item.StoreID,
		"productId": item.ProductID,
	}
	update := bson.M{
		"$inc": bson.M{"quantity": item.Quantity},
		"$setOnInsert": bson.M{
			"title":     item.Title,
			"unitPrice": item.UnitPrice,
			"imageUrl":  item.ImageURL,
			"addedAt":   time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// GetCart returns all cart items for the user, optional ?storeId= filter.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID}
	if storeID := r.URL.Query().Get("storeId"); storeID != "" {
		filter["storeId"] = storeID
	}

	cursor, err := db.CartCollection.Find(ctx, filter)
	if err != nil {
		log.Println("GetCart Find error:", err)
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetCart cursor.All error:", err)
		http.Error(w, "Error reading cart data", http.StatusInternalServerError)
		return
	}

	if len(items) == 0 {
		items = []models.CartItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// UpdateQuantity sets the quantity of one cart line, removing it at zero.
func UpdateQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		StoreID   string `json:"storeId"`
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.ProductID == "" || payload.StoreID == "" || payload.Quantity < 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID, "storeId": payload.StoreID, "productId": payload.ProductID}

	if payload.Quantity == 0 {
		if _, err := db.CartCollection.DeleteOne(ctx, filter); err != nil {
			log.Println("UpdateQuantity DeleteOne error:", err)
			http.Error(w, "Failed to remove cart item", http.StatusInternalServerError)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
		return
	}

	if _, err := db.CartCollection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"quantity": payload.Quantity}}); err != nil {
		log.Println("UpdateQuantity UpdateOne error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveFromCart deletes a single item from the user's cart.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{
		"userId":    userID,
		"storeId":   ps.ByName("storeid"),
		"productId": ps.ByName("productid"),
	}
	if _, err := db.CartCollection.DeleteOne(ctx, filter); err != nil {
		log.Println("RemoveFromCart DeleteOne error:", err)
		http.Error(w, "Failed to remove cart item", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearCart wipes the user's cart, optional ?storeId= scope.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"userId": userID}
	if storeID := r.URL.Query().Get("storeId"); storeID != "" {
		filter["storeId"] = storeID
	}

	if _, err := db.CartCollection.DeleteMany(ctx, filter); err != nil {
		log.Println("ClearCart DeleteMany error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
