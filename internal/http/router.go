package api

import (
	"log"

	"github.com/gin-gonic/gin"

	h "transitcrm/internal/http/handlers"
	"transitcrm/internal/http/middleware"
	"transitcrm/internal/session"
	"transitcrm/internal/web"
)

func NewRouter(console *h.Console, pages *web.Renderer) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), session.LoadSession(console.Sessions))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("[HTTP] action=trusted_proxies request_id=- msg=%v", err)
	}

	r.HTMLRender = pages
	r.StaticFS("/static", web.Static())
	r.NoRoute(middleware.FallbackRedirect())

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		lookups := api.Group("/lookups", middleware.RequireAuth())
		lookups.GET("/cards", console.LookupCards)
		lookups.GET("/trips", console.LookupTrips)
	}

	public := r.Group("", middleware.PublicOnly())
	{
		public.GET("/login", console.LoginPage)
		public.POST("/login", console.LoginSubmit)
		public.GET("/signup", console.SignupPage)
		public.POST("/signup", console.SignupSubmit)
	}

	app := r.Group("", middleware.RequireAuth())
	{
		app.GET("/", console.Home)
		app.POST("/logout", console.Logout)

		app.GET("/product-search", console.ProductSearch)
		app.GET("/register-product", console.RegisterPage)
		app.POST("/register-product", console.RegisterSubmit)

		// Products
		products := app.Group("/products")
		products.GET("", console.ProductsPage)
		products.POST("", console.ProductCreate)
		products.GET("/:id", console.ProductDetails)
		products.POST("/:id", console.ProductUpdate)
		products.POST("/:id/delete", console.ProductDelete)
		products.POST("/:id/block", console.ProductToggleBlock)
		products.GET("/:id/statement.pdf", console.ProductStatement)

		// Customers
		customers := app.Group("/customers")
		customers.GET("", console.CustomersPage)
		customers.POST("", console.CustomerCreate)
		customers.GET("/:id", console.CustomerDetail)
		customers.POST("/:id", console.CustomerUpdate)
		customers.POST("/:id/info", console.CustomerInfoUpdate)
		customers.POST("/:id/delete", console.CustomerDelete)

		// Purchases (trips)
		purchases := app.Group("/purchases")
		purchases.GET("", console.PurchasesPage)
		purchases.POST("", console.PurchaseCreate)
		purchases.GET("/:id", console.PurchaseHistory)
		purchases.POST("/:id", console.PurchaseUpdate)
		purchases.POST("/:id/delete", console.PurchaseDelete)
		purchases.POST("/:id/dispute", console.PurchaseDispute)

		// Service requests (cases)
		cases := app.Group("/service-request")
		cases.GET("", console.CasesPage)
		cases.POST("", console.CaseCreate)
		cases.POST("/:id", console.CaseUpdate)
		cases.POST("/:id/delete", console.CaseDelete)

		// Tap history, edit only
		taps := app.Group("/transaction-history")
		taps.GET("", console.TapsPage)
		taps.POST("/:id", console.TapUpdate)

		// Fare disputes
		disputes := app.Group("/fare-disputes")
		disputes.GET("", console.DisputesPage)
		disputes.POST("", console.DisputeCreate)
		disputes.POST("/:id", console.DisputeUpdate)
		disputes.POST("/:id/delete", console.DisputeDelete)
	}

	h.SetRouter(r)
	return r
}
