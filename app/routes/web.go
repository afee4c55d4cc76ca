// Package routes maps storefront URLs onto controllers.
package routes

import (
	"net/http"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/electrostore/app/controllers"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/graphql"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"github.com/shashiranjanraj/electrostore/pkg/middleware"
	"github.com/shashiranjanraj/electrostore/pkg/response"
	"github.com/shashiranjanraj/electrostore/pkg/router"
	"github.com/shashiranjanraj/electrostore/pkg/storage"
)

// LoginPath is where guests are sent when they hit a protected page.
const LoginPath = "/login/"

// Register wires every storefront endpoint onto r. Global middleware must
// already be installed.
func Register(r *router.Router, svc *services.Services, schema gql.Schema) {
	catalog := controllers.NewCatalogController(svc)
	cart := controllers.NewCartController(svc)
	orders := controllers.NewOrderController(svc)
	wishlist := controllers.NewWishlistController(svc)
	accounts := controllers.NewAccountController(svc)

	requireAuth := middleware.RequireAuth(LoginPath)

	// Catalog
	r.Get("/", "home", ctx.Wrap(catalog.Home))
	r.Get("/products", "products.index", ctx.Wrap(catalog.Index))
	r.Get("/products/{slug}", "products.show", ctx.Wrap(catalog.Show))
	r.Post("/products/{slug}", "products.review", ctx.Wrap(catalog.Review), requireAuth)
	r.Get("/search", "search", ctx.Wrap(catalog.Search))

	// Cart
	c := r.Group("/cart", requireAuth)
	c.Get("", "cart.show", ctx.Wrap(cart.Show))
	c.Post("/add/{product_id}", "cart.add", ctx.Wrap(cart.Add))
	c.Post("/update/{item_id}", "cart.update", ctx.Wrap(cart.Update))
	c.Post("/remove/{item_id}", "cart.remove", ctx.Wrap(cart.Remove))

	// Checkout & orders
	r.Get("/checkout", "checkout", ctx.Wrap(orders.Checkout), requireAuth)
	r.Post("/checkout", "checkout.place", ctx.Wrap(orders.PlaceOrder), requireAuth)

	o := r.Group("/orders", requireAuth)
	o.Get("", "orders.index", ctx.Wrap(orders.History))
	o.Get("/{order_id}", "orders.show", ctx.Wrap(orders.Show))

	// Wishlist
	w := r.Group("/wishlist", requireAuth)
	w.Get("", "wishlist.index", ctx.Wrap(wishlist.Index))
	w.Post("/add/{product_id}", "wishlist.add", ctx.Wrap(wishlist.Add))
	w.Post("/remove/{product_id}", "wishlist.remove", ctx.Wrap(wishlist.Remove))

	// Accounts
	guest := middleware.RequireGuest("/")
	r.Get("/register", "register", ctx.Wrap(accounts.RegisterForm), guest)
	r.Post("/register", "register.store", ctx.Wrap(accounts.Register), guest)
	r.Get("/login", "login", ctx.Wrap(accounts.LoginForm))
	r.Post("/login", "login.store", ctx.Wrap(accounts.Login))
	r.Post("/logout", "logout", ctx.Wrap(accounts.Logout))
	r.Get("/profile", "profile", ctx.Wrap(accounts.Profile), requireAuth)
	r.Post("/profile", "profile.update", ctx.Wrap(accounts.UpdateProfile), requireAuth)

	// Infrastructure
	r.Get("/healthz", "health", ctx.Wrap(controllers.Health))
	r.Post("/graphql", "graphql", graphql.Handler(schema).ServeHTTP)
	r.Mount("/metrics", "metrics", metrics.Handler())
	if disk := storage.Local(); disk != nil {
		r.Mount("/storage", "storage", http.StripPrefix("/storage", disk.Handler()))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
