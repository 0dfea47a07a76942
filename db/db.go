package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	StoresCollection      *mongo.Collection
	ProductsCollection    *mongo.Collection
	CartCollection        *mongo.Collection
	OrderCollection       *mongo.Collection
	DiscountCollection    *mongo.Collection
	CustomersCollection   *mongo.Collection
	TeamsCollection       *mongo.Collection
	TeamMembersCollection *mongo.Collection
	ReviewsCollection     *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ClientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), ClientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("storedb")
	UserCollection = database.Collection("users")
	StoresCollection = database.Collection("stores")
	ProductsCollection = database.Collection("products")
	CartCollection = database.Collection("carts")
	OrderCollection = database.Collection("orders")
	DiscountCollection = database.Collection("discountcodes")
	CustomersCollection = database.Collection("customers")
	TeamsCollection = database.Collection("teams")
	TeamMembersCollection = database.Collection("teammembers")
	ReviewsCollection = database.Collection("reviews")
}
