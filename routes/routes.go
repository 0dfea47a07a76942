package routes

import (
	"net/http"

	"storefront/admin"
	"storefront/analytics"
	"storefront/auth"
	"storefront/cart"
	"storefront/customers"
	"storefront/discount"
	"storefront/middleware"
	"storefront/models"
	"storefront/orders"
	"storefront/products"
	"storefront/ratelim"
	"storefront/reviews"
	"storefront/stores"
	"storefront/teams"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/cart", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.PUT("/api/cart", middleware.Authenticate(cart.UpdateQuantity))
	router.DELETE("/api/cart/:storeid/:productid", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddStoreRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	router.POST("/api/stores", rl.Limit(middleware.Authenticate(stores.CreateStore)))
	router.GET("/api/stores", adminOnly(stores.GetMyStores))
	router.PUT("/api/stores/:storeid/branding", adminOnly(stores.UpdateBranding))

	// Public storefront surface.
	router.GET("/api/store/:subdomain", rl.Limit(stores.GetStorefront))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	router.POST("/api/stores/:storeid/products", adminOnly(products.CreateProduct))
	router.GET("/api/stores/:storeid/products", adminOnly(products.GetStoreProducts))
	router.PUT("/api/stores/:storeid/products/:productid", adminOnly(products.UpdateProduct))
	router.DELETE("/api/stores/:storeid/products/:productid", adminOnly(products.DeleteProduct))
	router.POST("/api/stores/:storeid/products/:productid/image", adminOnly(products.UploadProductImage))

	router.GET("/api/store/:subdomain/products", rl.Limit(products.GetCatalog))
	router.GET("/api/store/:subdomain/products/:productid", rl.Limit(products.GetProduct))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	// Guest checkout is allowed; a session only adds cart cleanup.
	router.POST("/api/store/:subdomain/checkout", rl.Limit(middleware.OptionalAuth(orders.PlaceOrder)))
	router.GET("/api/store/:subdomain/orders/:orderid/track", rl.Limit(orders.TrackOrder))
	router.GET("/api/store/:subdomain/orders/:orderid/qr", rl.Limit(orders.TrackingQR))

	router.GET("/api/stores/:storeid/orders", adminOnly(orders.GetOrders))
	router.GET("/api/stores/:storeid/orders/:orderid", adminOnly(orders.GetOrder))
	router.PATCH("/api/stores/:storeid/orders/:orderid/status", adminOnly(orders.UpdateStatus))
	router.GET("/api/stores/:storeid/orders/:orderid/invoice", adminOnly(orders.PrintInvoice))
}

func AddDiscountRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	router.POST("/api/store/:subdomain/discount/apply", rl.Limit(discount.ApplyCode))

	router.POST("/api/stores/:storeid/discounts", adminOnly(discount.CreateCode))
	router.GET("/api/stores/:storeid/discounts", adminOnly(discount.GetCodes))
	router.DELETE("/api/stores/:storeid/discounts/:code", adminOnly(discount.DeactivateCode))
}

func AddReviewRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	router.POST("/api/store/:subdomain/products/:productid/reviews", rl.Limit(reviews.AddReview))
	router.GET("/api/store/:subdomain/products/:productid/reviews", rl.Limit(reviews.GetProductReviews))

	router.GET("/api/stores/:storeid/reviews", adminOnly(reviews.GetStoreReviews))
	router.PATCH("/api/stores/:storeid/reviews/:reviewid", adminOnly(reviews.ModerateReview))
}

func AddAnalyticsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	router.GET("/api/stores/:storeid/analytics", adminOnly(analytics.GetStoreStats))
}

func AddCustomerRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	router.POST("/api/stores/:storeid/customers", adminOnly(customers.CreateCustomer))
	router.GET("/api/stores/:storeid/customers", adminOnly(customers.GetCustomers))
}

func AddTeamRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	adminOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin, models.RoleStoreAdmin))
	}

	router.POST("/api/stores/:storeid/teams", adminOnly(teams.CreateTeam))
	router.GET("/api/stores/:storeid/teams", adminOnly(teams.GetTeams))
	router.POST("/api/stores/:storeid/teams/:teamid/members", rl.Limit(adminOnly(teams.InviteMember)))
	router.DELETE("/api/stores/:storeid/teams/:teamid/members/:email", adminOnly(teams.RemoveMember))
}

func AddAdminRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	superOnly := func(h httprouter.Handle) httprouter.Handle {
		return middleware.Authenticate(middleware.RequireRoles(h, models.RoleSuperAdmin))
	}

	router.GET("/api/admin/users", superOnly(admin.GetUsers))
	router.POST("/api/admin/users", rl.Limit(superOnly(admin.CreateUser)))
	router.GET("/api/admin/users/:userid", superOnly(admin.GetUser))
	router.PATCH("/api/admin/users/:userid/role", superOnly(admin.UpdateUserRole))
	router.DELETE("/api/admin/users/:userid", superOnly(admin.DeleteUser))
}
