package discount

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
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindByCode looks a code up for a store, case-insensitively.
func FindByCode(ctx context.Context, storeID, code string) (*models.DiscountCode, error) {
	var rec models.DiscountCode
	err := db.DiscountCollection.FindOne(ctx, bson.M{
		"storeId": storeID,
		"code":    Normalize(code),
	}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ConsumeUsage atomically increments a code's usage count, honoring the
// usage ceiling in the same update. Returns ErrUsageLimitReached when the
// ceiling has been hit; never read-then-write.
func ConsumeUsage(ctx context.Context, storeID, code string) error {
	filter := bson.M{
		"storeId": storeID,
		"code":    Normalize(code),
		"$or": []bson.M{
			{"usageLimit": bson.M{"$lte": 0}},
			{"$expr": bson.M{"$lt": bson.A{"$usageCount", "$usageLimit"}}},
		},
	}

	res, err := db.DiscountCollection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"usageCount": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUsageLimitReached
	}
	return nil
}

// CreateCode handles POST /api/stores/:storeid/discounts.
func CreateCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), ps.ByName("storeid")); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var rec models.DiscountCode
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		log.Println("CreateCode decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	rec.StoreID = ps.ByName("storeid")
	rec.Code = Normalize(rec.Code)

	if rec.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Code is required")
		return
	}
	switch rec.Kind {
	case models.DiscountPercentage, models.DiscountFixedAmount:
		if rec.Value <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Value must be positive")
			return
		}
	case models.DiscountFreeShip:
		// value ignored for free shipping
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown discount kind")
		return
	}
	if rec.ActiveFrom != nil && rec.ActiveUntil != nil && rec.ActiveFrom.After(*rec.ActiveUntil) {
		utils.RespondWithError(w, http.StatusBadRequest, "activeFrom must not be after activeUntil")
		return
	}

	rec.UsageCount = 0
	rec.Active = true
	rec.CreatedAt = time.Now()

	// Unique per store; duplicate insert is a conflict, not a server error.
	if _, err := FindByCode(ctx, rec.StoreID, rec.Code); err == nil {
		utils.RespondWithError(w, http.StatusConflict, "Code already exists")
		return
	}

	if _, err := db.DiscountCollection.InsertOne(ctx, rec); err != nil {
		log.Println("CreateCode InsertOne error:", err)
		http.Error(w, "Failed to create code", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, rec)
}

// GetCodes handles GET /api/stores/:storeid/discounts, newest first.
func GetCodes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), ps.ByName("storeid")); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.DiscountCollection.Find(ctx, bson.M{"storeId": ps.ByName("storeid")}, opts)
	if err != nil {
		log.Println("GetCodes Find error:", err)
		http.Error(w, "Failed to fetch codes", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var codes []models.DiscountCode
	if err := cursor.All(ctx, &codes); err != nil {
		log.Println("GetCodes cursor.All error:", err)
		http.Error(w, "Error reading codes", http.StatusInternalServerError)
		return
	}
	if len(codes) == 0 {
		codes = []models.DiscountCode{}
	}

	utils.RespondWithJSON(w, http.StatusOK, codes)
}

// DeactivateCode handles DELETE /api/stores/:storeid/discounts/:code.
// Codes are soft-disabled, never removed, so order snapshots stay valid.
func DeactivateCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), ps.ByName("storeid")); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	res, err := db.DiscountCollection.UpdateOne(ctx,
		bson.M{"storeId": ps.ByName("storeid"), "code": Normalize(ps.ByName("code"))},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		log.Println("DeactivateCode UpdateOne error:", err)
		http.Error(w, "Failed to deactivate code", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Code not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
