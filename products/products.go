package products

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"storefront/authz"
	"storefront/db"
	"storefront/filemgr"
	"storefront/models"
	"storefront/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validate = validator.New()

type productPayload struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Active      *bool   `json:"active"`
}

// CreateProduct handles POST /api/stores/:storeid/products.
func CreateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product: "+err.Error())
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	product := models.Product{
		ProductID:   "p" + utils.GenerateID(10),
		StoreID:     storeID,
		Title:       payload.Title,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Active:      active,
		CreatedAt:   time.Now(),
	}

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// GetStoreProducts handles GET /api/stores/:storeid/products. Admin
// view: inactive products included.
func GetStoreProducts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	listProducts(ctx, w, bson.M{"storeId": storeID})
}

// GetCatalog handles GET /api/store/:subdomain/products. Public
// storefront catalog: active products only.
func GetCatalog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var store models.Store
	err := db.StoresCollection.FindOne(ctx, bson.M{"subdomain": ps.ByName("subdomain")}).Decode(&store)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Store not found")
		return
	}

	listProducts(ctx, w, bson.M{"storeId": store.StoreID, "active": true})
}

// GetProduct handles GET /api/store/:subdomain/products/:productid.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

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

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/stores/:storeid/products/:productid.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product: "+err.Error())
		return
	}

	update := bson.M{
		"title":       payload.Title,
		"description": payload.Description,
		"price":       payload.Price,
		"stock":       payload.Stock,
	}
	if payload.Active != nil {
		update["active"] = *payload.Active
	}

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"storeId": storeID, "productId": ps.ByName("productid")},
		bson.M{"$set": update})
	if err != nil {
		log.Println("UpdateProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, update, "Product updated", nil)
}

// DeleteProduct handles DELETE /api/stores/:storeid/products/:productid.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var product models.Product
	err := db.ProductsCollection.FindOneAndDelete(ctx,
		bson.M{"storeId": storeID, "productId": ps.ByName("productid")}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Println("DeleteProduct error:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}

	if product.ImageURL != "" {
		if err := filemgr.Remove(product.ImageURL); err != nil {
			log.Println("DeleteProduct image cleanup error:", err)
		}
	}

	utils.SendResponse(w, http.StatusOK, nil, "Product deleted", nil)
}

// UploadProductImage handles POST /api/stores/:storeid/products/:productid/image.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	productID := ps.ByName("productid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	imageURL, err := filemgr.SaveProductImage(file, header, productID)
	if err != nil {
		if errors.Is(err, filemgr.ErrInvalidExtension) || errors.Is(err, filemgr.ErrFileTooLarge) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Println("UploadProductImage SaveProductImage error:", err)
		http.Error(w, "Failed to save image", http.StatusInternalServerError)
		return
	}

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"storeId": storeID, "productId": productID},
		bson.M{"$set": bson.M{"imageUrl": imageURL}})
	if err != nil || res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"imageUrl": imageURL})
}

func listProducts(ctx context.Context, w http.ResponseWriter, filter bson.M) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.ProductsCollection.Find(ctx, filter, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithJSON(w, http.StatusOK, []models.Product{})
			return
		}
		log.Println("listProducts Find error:", err)
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	if len(products) == 0 {
		products = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}
