package admin

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

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

// Platform-level user administration. Every handler here sits behind
// the super_admin route gate.

// GetUsers handles GET /api/admin/users. ?role= narrows the listing.
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetProjection(bson.M{"password": 0, "refresh_token": 0})
	cursor, err := db.UserCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetUsers Find error:", err)
		http.Error(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var users []models.UserProfile
	if err := cursor.All(ctx, &users); err != nil {
		http.Error(w, "Error reading users", http.StatusInternalServerError)
		return
	}
	if len(users) == 0 {
		users = []models.UserProfile{}
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

type createUserPayload struct {
	Username string   `json:"username" validate:"required,min=3"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     string   `json:"role" validate:"required,oneof=super_admin store_admin user"`
	StoreIDs []string `json:"storeIds"`
}

// CreateUser handles POST /api/admin/users.
func CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload createUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user: "+err.Error())
		return
	}
	if payload.Role == models.RoleStoreAdmin && len(payload.StoreIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "store_admin requires at least one store")
		return
	}

	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": payload.Email},
		bson.M{"username": payload.Username},
	}})
	if err == nil && count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Username or email already in use")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	storeIDs := payload.StoreIDs
	if payload.Role != models.RoleStoreAdmin {
		storeIDs = nil
	}

	user := models.UserProfile{
		UserID:    "u" + utils.GenerateID(10),
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  string(hashed),
		Role:      payload.Role,
		StoreIDs:  storeIDs,
		CreatedAt: time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Println("CreateUser InsertOne error:", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	user.Password = ""
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

type updateRolePayload struct {
	Role     string   `json:"role" validate:"required,oneof=super_admin store_admin user"`
	StoreIDs []string `json:"storeIds"`
}

// UpdateUserRole handles PATCH /api/admin/users/:userid/role. Demoting
// to user clears the store list.
func UpdateUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload updateRolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid role: "+err.Error())
		return
	}
	if payload.Role == models.RoleStoreAdmin && len(payload.StoreIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "store_admin requires at least one store")
		return
	}

	set := bson.M{"role": payload.Role}
	if payload.Role == models.RoleStoreAdmin {
		set["storeIds"] = payload.StoreIDs
	} else {
		set["storeIds"] = nil
	}

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userId": ps.ByName("userid")}, bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateUserRole UpdateOne error:", err)
		http.Error(w, "Failed to update role", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, set, "Role updated", nil)
}

// DeleteUser handles DELETE /api/admin/users/:userid. A super_admin
// cannot delete their own account.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("userid")
	if userID == utils.GetUserIDFromRequest(r) {
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("DeleteUser DeleteOne error:", err)
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "User deleted", nil)
}

// GetUser handles GET /api/admin/users/:userid.
func GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"password": 0, "refresh_token": 0})
	var user models.UserProfile
	err := db.UserCollection.FindOne(ctx, bson.M{"userId": ps.ByName("userid")}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}
