// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	healthfeature "github.com/devinnolab/proplanner/internal/app/features/health"
	leadformfeature "github.com/devinnolab/proplanner/internal/app/features/leadform"
	leadsfeature "github.com/devinnolab/proplanner/internal/app/features/leads"
	loginfeature "github.com/devinnolab/proplanner/internal/app/features/login"
	logoutfeature "github.com/devinnolab/proplanner/internal/app/features/logout"
	portalfeature "github.com/devinnolab/proplanner/internal/app/features/portal"
	projectsfeature "github.com/devinnolab/proplanner/internal/app/features/projects"
	uploadsfeature "github.com/devinnolab/proplanner/internal/app/features/uploads"
	usersfeature "github.com/devinnolab/proplanner/internal/app/features/users"
	auditstore "github.com/devinnolab/proplanner/internal/app/store/audit"
	leadstore "github.com/devinnolab/proplanner/internal/app/store/leads"
	projectstore "github.com/devinnolab/proplanner/internal/app/store/projects"
	reqstore "github.com/devinnolab/proplanner/internal/app/store/requirements"
	userstore "github.com/devinnolab/proplanner/internal/app/store/users"
	"github.com/devinnolab/proplanner/internal/app/system/auditlog"
	"github.com/devinnolab/proplanner/internal/app/system/auth"
	"github.com/devinnolab/proplanner/internal/app/system/mailer"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. The public surface is the lead
// form, the upload relay, the client portal, and login; everything else
// requires a signed-in session.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request, so
	// deactivated or deleted accounts lose access immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Stores.
	usersSt := userstore.New(deps.MongoDatabase)
	leadsSt := leadstore.New(deps.MongoDatabase)
	requirementsSt := reqstore.New(deps.MongoDatabase)
	projectsSt := projectstore.New(deps.MongoDatabase)

	// Operational audit trail.
	auditLog := auditlog.New(auditstore.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// Outbound mail; Enabled() is false without SMTP credentials and
	// the form flows skip sending.
	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	// Lead attachment storage.
	fileStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("storage init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication.
	loginHandler := loginfeature.NewHandler(usersSt, sessionMgr, auditLog, logger)
	r.Mount("/api/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/api/logout", logoutfeature.Routes(logoutHandler))

	// Public: the requirements form a prospect fills in.
	leadformHandler := leadformfeature.NewHandler(
		leadsSt, requirementsSt, mail, auditLog,
		appCfg.SiteName, appCfg.NotificationEmail, logger)
	r.Mount("/api/leads", leadformfeature.Routes(leadformHandler))

	// Public: the attachment relay for that form, and the files it stores.
	uploadsHandler := uploadsfeature.NewHandler(leadsSt, fileStore, auditLog, appCfg.BaseURL, logger)
	r.Mount("/api/uploads", uploadsfeature.Routes(uploadsHandler))
	r.Mount("/files", uploadsfeature.FileRoutes(uploadsHandler))

	// Public: the client portal, keyed by shareable link id.
	portalHandler := portalfeature.NewHandler(projectsSt, logger)
	r.Mount("/api/portal", portalfeature.Routes(portalHandler))

	// Admin: user, lead and project management.
	usersHandler := usersfeature.NewHandler(usersSt, auditLog, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler, sessionMgr))

	leadsHandler := leadsfeature.NewHandler(leadsSt, requirementsSt, auditLog, logger)
	r.Mount("/api/admin/leads", leadsfeature.Routes(leadsHandler, sessionMgr))

	projectsHandler := projectsfeature.NewHandler(projectsSt, auditLog, logger)
	r.Mount("/api/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	return r, nil
}
