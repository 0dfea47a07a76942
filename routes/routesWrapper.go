package routes

import (
	"storefront/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddStoreRoutes(router, rateLimiter)
	AddProductRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter)
	AddDiscountRoutes(router, rateLimiter)
	AddReviewRoutes(router, rateLimiter)
	AddAnalyticsRoutes(router, rateLimiter)
	AddCustomerRoutes(router, rateLimiter)
	AddTeamRoutes(router, rateLimiter)
	AddAdminRoutes(router, rateLimiter)
	AddStaticRoutes(router)
}
