package models

import "time"

// Review statuses
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewHidden   = "hidden"
	ReviewDeleted  = "deleted"
)

// Review is a shopper's product review. Reviews are visible until a
// moderator hides or deletes them; deletion is a status, never a
// document removal.
type Review struct {
	ReviewID  string    `json:"reviewId" bson:"reviewId"`
	StoreID   string    `json:"storeId" bson:"storeId"`
	ProductID string    `json:"productId" bson:"productId"`
	Name      string    `json:"name" bson:"name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
