package customers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"storefront/authz"
	"storefront/db"
	"storefront/models"
	"storefront/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validate = validator.New()

type customerPayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

// CreateCustomer handles POST /api/stores/:storeid/customers. The same
// email may exist once per store; repeat creates update the record.
func CreateCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var payload customerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid customer: "+err.Error())
		return
	}

	customer, err := Upsert(ctx, storeID, payload.Email, payload.Name, payload.Phone)
	if err != nil {
		log.Println("CreateCustomer upsert error:", err)
		http.Error(w, "Failed to save customer", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, customer)
}

// GetCustomers handles GET /api/stores/:storeid/customers.
func GetCustomers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.CustomersCollection.Find(ctx, bson.M{"storeId": storeID}, opts)
	if err != nil {
		log.Println("GetCustomers Find error:", err)
		http.Error(w, "Failed to fetch customers", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		http.Error(w, "Error reading customers", http.StatusInternalServerError)
		return
	}
	if len(customers) == 0 {
		customers = []models.Customer{}
	}

	utils.RespondWithJSON(w, http.StatusOK, customers)
}

// Upsert records a customer for a store, keyed by email. Checkout calls
// this so every buyer shows up in the store's customer list.
func Upsert(ctx context.Context, storeID, email, name, phone string) (models.Customer, error) {
	now := time.Now()
	set := bson.M{"name": name}
	if phone != "" {
		set["phone"] = phone
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"customerId": "c" + utils.GenerateID(10),
			"storeId":    storeID,
			"email":      email,
			"createdAt":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var customer models.Customer
	err := db.CustomersCollection.FindOneAndUpdate(ctx,
		bson.M{"storeId": storeID, "email": email}, update, opts).Decode(&customer)
	return customer, err
}
