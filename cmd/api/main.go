package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/config"
	"github.com/gestio-app/gestio-backend-go/internal/fixtures"
	appHTTP "github.com/gestio-app/gestio-backend-go/internal/handler/http"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/cache"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/cron"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/database"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/jwt"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/oauth"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/ratelimit"
	"github.com/gestio-app/gestio-backend-go/internal/repository/postgresql"
	accessService "github.com/gestio-app/gestio-backend-go/internal/service/access"
	authService "github.com/gestio-app/gestio-backend-go/internal/service/auth"
	codeService "github.com/gestio-app/gestio-backend-go/internal/service/code"
	companyService "github.com/gestio-app/gestio-backend-go/internal/service/company"
	identityService "github.com/gestio-app/gestio-backend-go/internal/service/identity"
	roleService "github.com/gestio-app/gestio-backend-go/internal/service/role"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	accountRepo := postgresql.NewAccountRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	roleRepo := postgresql.NewRoleRepository(db)
	permissionRepo := postgresql.NewPermissionRepository(db)
	codeRepo := postgresql.NewCodeRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)
	transactor := postgresql.NewTransactor(db)

	// The catalog is additive; redeploys only insert codes that are new.
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	inserted, err := permissionRepo.SeedMissing(seedCtx, fixtures.DefaultPermissions())
	cancelSeed()
	if err != nil {
		log.Fatal("Failed to seed permission catalog: ", err)
	}
	if inserted > 0 {
		slog.Info("Permission catalog seeded", "inserted", inserted)
	}

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	discordSvc := oauth.NewDiscordService(cfg.OAuth2Discord.ClientID, cfg.OAuth2Discord.ClientSecret, cfg.OAuth2Discord.RedirectURL, cfg.OAuth2Discord.Scopes)

	cacheStore := cache.NewStore(cfg.Cache.Size, cfg.Cache.TTL)
	rateTracker := ratelimit.NewTracker(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	defer rateTracker.Stop()

	accessSvc := accessService.NewAccessService(accountRepo, roleRepo, permissionRepo)
	authSvc := authService.NewAuthService(transactor, accountRepo, companyRepo, roleRepo, jwtSvc, jwtRepo)
	codeSvc := codeService.NewCodeService(codeRepo, accountRepo, roleRepo, companyRepo, cfg.Code.DefaultExpiry, cfg.Code.Retention)
	identitySvc := identityService.NewAccountService(accountRepo, codeRepo, codeSvc, jwtSvc, jwtRepo)
	roleSvc := roleService.NewRoleService(roleRepo)
	companySvc := companyService.NewCompanyService(companyRepo)

	scheduler := cron.NewScheduler()
	if err := cron.NewCodeJobs(codeSvc).RegisterJobs(scheduler); err != nil {
		log.Fatal("Failed to register cron jobs: ", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		Config:        cfg,
		JWTService:    jwtSvc,
		AccessService: accessSvc,
		CacheStore:    cacheStore,
		RateTracker:   rateTracker,
		Auth:          appHTTP.NewAuthHandler(jwtSvc, authSvc, discordSvc, cfg.App.FrontendURL),
		Account:       appHTTP.NewAccountHandler(identitySvc, cacheStore),
		Code:          appHTTP.NewCodeHandler(codeSvc, cacheStore),
		Role:          appHTTP.NewRoleHandler(roleSvc, cacheStore),
		Company:       appHTTP.NewCompanyHandler(companySvc, cacheStore),
		Permission:    appHTTP.NewPermissionHandler(permissionRepo, accessSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
