package analytics

import (
	"context"
	"log"
	"net/http"
	"time"

	"storefront/authz"
	"storefront/db"
	"storefront/orders"
	"storefront/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// StoreStats summarizes a store's order activity. Cancelled orders are
// excluded from sales figures but still counted per status.
type StoreStats struct {
	StoreID        string         `json:"storeId"`
	TotalSales     float64        `json:"totalSales"`
	OrderCount     int64          `json:"orderCount"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
	TopProduct     *TopProduct    `json:"topProduct,omitempty"`
}

// TopProduct is the best-selling product by units across the store's
// non-cancelled orders.
type TopProduct struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Units     int    `json:"units"`
}

// GetStoreStats handles GET /api/stores/:storeid/analytics.
func GetStoreStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	stats, err := computeStoreStats(ctx, storeID)
	if err != nil {
		log.Println("GetStoreStats error:", err)
		http.Error(w, "Failed to compute analytics", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func computeStoreStats(ctx context.Context, storeID string) (*StoreStats, error) {
	stats := &StoreStats{
		StoreID:        storeID,
		OrdersByStatus: map[string]int{},
	}

	byStatus, err := db.OrderCollection.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"storeId": storeID}},
		{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"sales": bson.M{"$sum": "$total"},
		}},
	})
	if err != nil {
		return nil, err
	}
	defer byStatus.Close(ctx)

	var statusRows []struct {
		Status string  `bson:"_id"`
		Count  int     `bson:"count"`
		Sales  float64 `bson:"sales"`
	}
	if err := byStatus.All(ctx, &statusRows); err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.OrdersByStatus[row.Status] = row.Count
		stats.OrderCount += int64(row.Count)
		if row.Status != orders.StatusCancelled {
			stats.TotalSales += row.Sales
		}
	}

	topCursor, err := db.OrderCollection.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"storeId": storeID, "status": bson.M{"$ne": orders.StatusCancelled}}},
		{"$unwind": "$items"},
		{"$group": bson.M{
			"_id":   "$items.productId",
			"title": bson.M{"$last": "$items.title"},
			"units": bson.M{"$sum": "$items.quantity"},
		}},
		{"$sort": bson.M{"units": -1}},
		{"$limit": 1},
	})
	if err != nil {
		return nil, err
	}
	defer topCursor.Close(ctx)

	var topRows []struct {
		ProductID string `bson:"_id"`
		Title     string `bson:"title"`
		Units     int    `bson:"units"`
	}
	if err := topCursor.All(ctx, &topRows); err != nil {
		return nil, err
	}
	if len(topRows) > 0 {
		stats.TopProduct = &TopProduct{
			ProductID: topRows[0].ProductID,
			Title:     topRows[0].Title,
			Units:     topRows[0].Units,
		}
	}

	return stats, nil
}
