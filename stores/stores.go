package stores

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
	"storefront/rdx"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateStore handles POST /api/stores. The creator becomes the store's
// admin: their profile gains the store id and, if they were a plain
// user, the store_admin role.
func CreateStore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Name      string `json:"name"`
		Subdomain string `json:"subdomain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Subdomain == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and subdomain are required")
		return
	}

	subdomain, err := utils.NormalizeSubdomain(payload.Subdomain)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid subdomain")
		return
	}

	claims := utils.GetClaimsFromRequest(r)
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Subdomain is the tenant routing key; it must be unique.
	var existing models.Store
	err = db.StoresCollection.FindOne(ctx, bson.M{"subdomain": subdomain}).Decode(&existing)
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "Subdomain already taken")
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var owner models.UserProfile
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": claims.UserID}).Decode(&owner); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	store := models.Store{
		StoreID:    "s" + utils.GenerateID(10),
		Name:       payload.Name,
		Subdomain:  subdomain,
		OwnerID:    owner.UserID,
		OwnerEmail: owner.Email,
		CreatedAt:  time.Now(),
	}

	if _, err := db.StoresCollection.InsertOne(ctx, store); err != nil {
		log.Println("CreateStore InsertOne error:", err)
		http.Error(w, "Failed to create store", http.StatusInternalServerError)
		return
	}

	update := bson.M{"$addToSet": bson.M{"storeIds": store.StoreID}}
	if owner.Role == models.RoleUser {
		update["$set"] = bson.M{"role": models.RoleStoreAdmin}
	}
	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"userId": owner.UserID}, update); err != nil {
		log.Println("CreateStore owner role update error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, store)
}

// GetMyStores handles GET /api/stores. super_admin sees every store;
// a store_admin sees their own.
func GetMyStores(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	claims := utils.GetClaimsFromRequest(r)
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{}
	if claims.Role != models.RoleSuperAdmin {
		filter["storeId"] = bson.M{"$in": claims.StoreIDs}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.StoresCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetMyStores Find error:", err)
		http.Error(w, "Failed to fetch stores", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var stores []models.Store
	if err := cursor.All(ctx, &stores); err != nil {
		http.Error(w, "Error reading stores", http.StatusInternalServerError)
		return
	}
	if len(stores) == 0 {
		stores = []models.Store{}
	}

	utils.RespondWithJSON(w, http.StatusOK, stores)
}

// GetStorefront handles GET /api/store/:subdomain. Public: the branding
// the storefront layout needs. Cached in redis since every storefront
// page load hits it.
func GetStorefront(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	subdomain := ps.ByName("subdomain")
	cacheKey := "storefront:" + subdomain

	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cached))
		return
	}

	var store models.Store
	err := db.StoresCollection.FindOne(ctx, bson.M{"subdomain": subdomain}).Decode(&store)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}

	payload := map[string]any{
		"storeId":    store.StoreID,
		"name":       store.Name,
		"subdomain":  store.Subdomain,
		"logoUrl":    store.LogoURL,
		"brandColor": store.BrandColor,
	}

	if data, err := json.Marshal(payload); err == nil {
		if err := rdx.SetWithExpiry(cacheKey, string(data), 5*time.Minute); err != nil {
			log.Println("GetStorefront cache write error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, payload)
}

// requireStoreAccess resolves the store and checks the session may
// manage it. Writes the denial response itself and returns nil on
// failure.
func requireStoreAccess(ctx context.Context, w http.ResponseWriter, r *http.Request, storeID string) *models.Store {
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return nil
	}

	var store models.Store
	if err := db.StoresCollection.FindOne(ctx, bson.M{"storeId": storeID}).Decode(&store); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return nil
	}
	return &store
}
