package router

import (
	"github.com/ServiLut/tote-bag/internal/interfaces/http/handler"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers of the storefront API
type Handlers struct {
	System    *handler.SystemHandler
	Address   *handler.AddressHandler
	Product   *handler.ProductHandler
	Order     *handler.OrderHandler
	Location  *handler.LocationHandler
	Profile   *handler.ProfileHandler
	B2B       *handler.B2BHandler
	Audit     *handler.AuditHandler
	Dashboard *handler.DashboardHandler
}

// Guards are the per-route access checks
type Guards struct {
	Authenticated   gin.HandlerFunc
	Profile         gin.HandlerFunc
	OptionalProfile gin.HandlerFunc
	Admin           gin.HandlerFunc
}

// NewGuards builds the access checks on top of a profile resolver
func NewGuards(resolver middleware.ProfileResolver) Guards {
	return Guards{
		Authenticated:   middleware.RequireAuth(),
		Profile:         middleware.RequireProfile(resolver),
		OptionalProfile: middleware.OptionalProfile(resolver),
		Admin:           middleware.RequireAdmin(resolver),
	}
}

// Mount registers /health on the engine and every resource group under
// the versioned prefix, then calls Setup.
func Mount(r *Router, h Handlers, g Guards) {
	r.engine.GET("/health", h.System.Health)
	r.Register(Groups(h, g)...)
	r.Setup()
}

// Groups returns the resource groups of the API
func Groups(h Handlers, g Guards) []RouteRegistrar {
	addresses := NewDomainGroup("addresses", "/addresses").Use(g.Profile)
	addresses.POST("", h.Address.Create)
	addresses.GET("", h.Address.List)
	addresses.GET("/:id", h.Address.Get)
	addresses.PATCH("/:id", h.Address.Update)
	addresses.DELETE("/:id", h.Address.Delete)

	products := NewDomainGroup("products", "/products")
	products.POST("", g.Admin, h.Product.Create)
	products.GET("/list", h.Product.List)
	products.GET("/slug/:slug", h.Product.GetBySlug)
	products.GET("/:id", h.Product.Get)
	products.PATCH("/:id", g.Admin, h.Product.Update)
	products.DELETE("/:id", g.Admin, h.Product.Remove)

	collections := NewDomainGroup("collections", "/collections")
	collections.GET("", h.Product.ListCollections)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", g.OptionalProfile, h.Order.Create)
	orders.GET("", g.Admin, h.Order.List)
	orders.GET("/me", g.Profile, h.Order.Mine)
	orders.GET("/:id", g.Admin, h.Order.Get)
	orders.PATCH("/:id", g.Admin, h.Order.Update)

	locations := NewDomainGroup("locations", "/locations")
	locations.GET("/departments", h.Location.Departments)
	locations.GET("/municipalities/:departmentId", h.Location.Municipalities)

	profiles := NewDomainGroup("profiles", "/profiles")
	profiles.GET("/me", g.Authenticated, h.Profile.Me)
	profiles.PATCH("/me", g.Authenticated, h.Profile.UpdateMe)
	profiles.GET("", g.Admin, h.Profile.List)
	profiles.GET("/:id", g.Admin, h.Profile.Get)

	b2b := NewDomainGroup("b2b", "/b2b")
	b2b.POST("/quote", h.B2B.CreateQuote)
	b2b.GET("/quotes", g.Admin, h.B2B.ListQuotes)
	b2b.PATCH("/quotes/:id/approve", g.Admin, h.B2B.ApproveDesign)

	audit := NewDomainGroup("audit", "/audit").Use(g.Admin)
	audit.GET("", h.Audit.List)
	audit.GET("/:id", h.Audit.Get)

	dashboard := NewDomainGroup("dashboard", "/dashboard").Use(g.Admin)
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/production-batch", h.Dashboard.ProductionBatch)

	return []RouteRegistrar{
		addresses, products, collections, orders, locations,
		profiles, b2b, audit, dashboard,
	}
}
