package stores

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"storefront/db"
	"storefront/filemgr"
	"storefront/rdx"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// UpdateBranding handles PUT /api/stores/:storeid/branding. Accepts a
// multipart form with an optional "logo" file and an optional
// "brandColor" field.
func UpdateBranding(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	store := requireStoreAccess(ctx, w, r, storeID)
	if store == nil {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	update := bson.M{}

	if color := r.FormValue("brandColor"); color != "" {
		update["brandColor"] = color
	}

	file, header, err := r.FormFile("logo")
	if err == nil {
		defer file.Close()
		logoURL, err := filemgr.SaveLogo(file, header, storeID)
		if err != nil {
			if errors.Is(err, filemgr.ErrInvalidExtension) || errors.Is(err, filemgr.ErrFileTooLarge) {
				utils.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Println("UpdateBranding SaveLogo error:", err)
			http.Error(w, "Failed to save logo", http.StatusInternalServerError)
			return
		}
		update["logoUrl"] = logoURL
	} else if !errors.Is(err, http.ErrMissingFile) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid logo upload")
		return
	}

	if len(update) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	if _, err := db.StoresCollection.UpdateOne(ctx, bson.M{"storeId": storeID}, bson.M{"$set": update}); err != nil {
		log.Println("UpdateBranding UpdateOne error:", err)
		http.Error(w, "Failed to update branding", http.StatusInternalServerError)
		return
	}

	if _, err := rdx.RdxDel("storefront:" + store.Subdomain); err != nil {
		log.Println("UpdateBranding cache invalidation error:", err)
	}

	utils.SendResponse(w, http.StatusOK, update, "Branding updated", nil)
}
