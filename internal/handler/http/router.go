package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gestio-app/gestio-backend-go/internal/config"
	"github.com/gestio-app/gestio-backend-go/internal/domain/access"
	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/middleware"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/cache"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/jwt"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterDeps struct {
	Config        *config.Config
	JWTService    jwt.Service
	AccessService access.AccessService
	CacheStore    *cache.Store
	RateTracker   *ratelimit.Tracker
	Auth          AuthHandler
	Account       AccountHandler
	Code          CodeHandler
	Role          RoleHandler
	Company       CompanyHandler
	Permission    PermissionHandler
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gestio-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", deps.Config.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.Config.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(deps.RateTracker))

			r.Post("/register", deps.Auth.Register)
			r.Post("/refresh", deps.Auth.RefreshToken)
			r.Post("/logout", deps.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/discord", deps.Auth.OAuthCallbackDiscord)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", deps.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/discord", deps.Auth.LoginWithDiscord)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Route("/accounts", func(r chi.Router) {
				r.Route("/me", func(r chi.Router) {
					r.With(middleware.CacheResponse(deps.CacheStore)).Get("/", deps.Account.Me)
					r.Put("/", deps.Account.UpdateProfile)
				})
				r.With(middleware.CacheResponse(deps.CacheStore)).Get("/linked", deps.Account.ListLinked)
				r.Post("/linked", deps.Account.CreateLinked)
				r.Post("/switch", deps.Account.Switch)
			})

			r.Route("/codes", func(r chi.Router) {
				r.Post("/redeem", deps.Code.Redeem)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(deps.AccessService, "MANAGE_CODES"))
					r.With(middleware.CacheResponse(deps.CacheStore)).Get("/", deps.Code.List)
					r.Post("/", deps.Code.Generate)
					r.Get("/{code}/usages", deps.Code.ListUsages)
					r.Delete("/{code}", deps.Code.Deactivate)
				})
			})

			r.Route("/roles", func(r chi.Router) {
				r.Use(middleware.RequirePermission(deps.AccessService, "MANAGE_ROLES"))

				r.With(middleware.CacheResponse(deps.CacheStore)).Get("/", deps.Role.List)
				r.Post("/", deps.Role.Create)
				r.Route("/{roleID}", func(r chi.Router) {
					r.Get("/", deps.Role.Get)
					r.Put("/", deps.Role.Update)
					r.Put("/permissions", deps.Role.UpdatePermissions)
					r.Delete("/", deps.Role.Delete)
				})
			})

			r.Route("/companies/my", func(r chi.Router) {
				r.With(
					middleware.RequireCategory(deps.AccessService, permission.CategoryGestion),
					middleware.CacheResponse(deps.CacheStore),
				).Get("/", deps.Company.GetMy)
				r.With(middleware.RequirePermission(deps.AccessService, "MANAGE_COMPANY")).Put("/", deps.Company.UpdateMy)
			})

			r.Route("/permissions", func(r chi.Router) {
				r.With(middleware.CacheResponse(deps.CacheStore)).Get("/", deps.Permission.Catalog)
				r.Get("/me", deps.Permission.MyEffective)
				r.Get("/check/{code}", deps.Permission.CheckAccess)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	return r
}
