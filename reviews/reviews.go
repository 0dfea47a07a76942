package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"storefront/authz"
	"storefront/db"
	"storefront/mailer"
	"storefront/models"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewPayload struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// statusForAction maps a moderation action onto the review status it
// produces. Unknown actions map to the empty string.
func statusForAction(action string) string {
	switch action {
	case "approve":
		return models.ReviewApproved
	case "hide":
		return models.ReviewHidden
	case "delete":
		return models.ReviewDeleted
	}
	return ""
}

// AddReview handles POST /api/store/:subdomain/products/:productid/reviews.
// Shoppers are anonymous here; the name travels in the payload. The store
// owner gets a notification email per review.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if payload.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	var store models.Store
	err := db.StoresCollection.FindOne(ctx, bson.M{"subdomain": ps.ByName("subdomain")}).Decode(&store)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}

	var product models.Product
	err = db.ProductsCollection.FindOne(ctx, bson.M{
		"storeId":   store.StoreID,
		"productId": ps.ByName("productid"),
		"active":    true,
	}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	review := models.Review{
		ReviewID:  utils.GenerateRandomString(16),
		StoreID:   store.StoreID,
		ProductID: product.ProductID,
		Name:      payload.Name,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		Status:    models.ReviewPending,
		CreatedAt: time.Now(),
	}

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		log.Println("AddReview InsertOne error:", err)
		http.Error(w, "Failed to save review", http.StatusInternalServerError)
		return
	}

	if store.OwnerEmail != "" {
		subject := fmt.Sprintf("New Review for %s", product.Title)
		body := fmt.Sprintf("<p>%s left a %d-star review:</p><blockquote>%s</blockquote>",
			review.Name, review.Rating, review.Comment)
		mailer.SendAsync(store.OwnerEmail, subject, body)
	}

	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// GetProductReviews handles GET /api/store/:subdomain/products/:productid/reviews.
// Hidden and deleted reviews never leave the moderation queue.
func GetProductReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var store models.Store
	err := db.StoresCollection.FindOne(ctx, bson.M{"subdomain": ps.ByName("subdomain")}).Decode(&store)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}

	filter := bson.M{
		"storeId":   store.StoreID,
		"productId": ps.ByName("productid"),
		"status":    bson.M{"$nin": bson.A{models.ReviewHidden, models.ReviewDeleted}},
	}
	listReviews(ctx, w, filter)
}

// GetStoreReviews handles GET /api/stores/:storeid/reviews. The moderation
// queue shows every status, newest first.
func GetStoreReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), ps.ByName("storeid")); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	listReviews(ctx, w, bson.M{"storeId": ps.ByName("storeid")})
}

// ModerateReview handles PATCH /api/stores/:storeid/reviews/:reviewid with
// a body of {"action": "approve"|"hide"|"delete"}.
func ModerateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), ps.ByName("storeid")); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var payload struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	status := statusForAction(payload.Action)
	if status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown moderation action")
		return
	}

	res, err := db.ReviewsCollection.UpdateOne(ctx, bson.M{
		"storeId":  ps.ByName("storeid"),
		"reviewId": ps.ByName("reviewid"),
	}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		log.Println("ModerateReview UpdateOne error:", err)
		http.Error(w, "Failed to moderate review", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"reviewId": ps.ByName("reviewid"),
		"status":   status,
	})
}

func listReviews(ctx context.Context, w http.ResponseWriter, filter bson.M) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.ReviewsCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("listReviews Find error:", err)
		http.Error(w, "Failed to fetch reviews", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		log.Println("listReviews cursor error:", err)
		http.Error(w, "Failed to fetch reviews", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, reviews)
}
