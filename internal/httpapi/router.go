package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/api"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/auth"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/catalog"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/customization"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/events"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/internal/product"
	"github.com/mahmoudzahran20025-arch/softcream-nextjs-sub000/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	productRepo := product.NewRepository(deps.DB)
	catalogRepo := catalog.NewRepository(deps.DB)
	eventsRepo := events.NewRepository(deps.DB)
	bulk := customization.NewBulkAssigner(productRepo, deps.Cfg.Bulk.MaxConcurrency, deps.Cfg.Bulk.PerProductTimeout)

	authHandlers := auth.Handlers{Cfg: deps.Cfg}
	productHandlers := product.Handlers{
		Products: productRepo,
		Catalog:  catalogRepo,
		Events:   eventsRepo,
		Bulk:     bulk,
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.DashboardAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Admin-Token"},
			MaxAgeSeconds:  600,
		}))

		r.Post("/auth/login", authHandlers.Login)

		// Admin dashboard APIs (session-scoped)
		r.Group(func(r chi.Router) {
			r.Use(auth.AdminAuth(deps.Cfg))

			r.Get("/catalog", productHandlers.GetCatalog)

			r.Get("/products", productHandlers.List)
			r.Get("/products/{product_id}/customization", productHandlers.GetCustomization)
			r.Post("/products/{product_id}/customization/preview", productHandlers.Preview)
			r.Put("/products/{product_id}/customization", productHandlers.Put)
			r.Get("/products/{product_id}/events", productHandlers.ListEvents)

			r.Post("/customization/bulk-assign", productHandlers.BulkAssign)
		})
	})

	return r
}
