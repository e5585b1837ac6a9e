// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ProPlanner.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: PROPLANNER_MONGO_URI, PROPLANNER_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "proplanner", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "proplanner-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Lead attachment storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend for lead attachments ('local')"},
	{Name: "storage_local_path", Default: "./uploads/attachments", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username (blank disables sending)"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@proplanner.app", Desc: "From email address"},
	{Name: "mail_from_name", Default: "ProPlanner", Desc: "From display name"},
	{Name: "notification_email", Default: "", Desc: "Address notified of new form submissions"},

	// Public identity
	{Name: "site_name", Default: "ProPlanner", Desc: "Display name used in client-facing emails"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in emails and upload responses"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// First-admin bootstrap
	{Name: "admin_name", Default: "Administrador", Desc: "Display name for the bootstrapped admin user"},
	{Name: "admin_email", Default: "", Desc: "Email for the admin user created when the users collection is empty"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrapped admin user"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env and config files,
// PROPLANNER_* environment variables, and command-line flags, merged
// with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PROPLANNER", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		MailSMTPHost:      appValues.String("mail_smtp_host"),
		MailSMTPPort:      appValues.Int("mail_smtp_port"),
		MailSMTPUser:      appValues.String("mail_smtp_user"),
		MailSMTPPass:      appValues.String("mail_smtp_pass"),
		MailFrom:          appValues.String("mail_from"),
		MailFromName:      appValues.String("mail_from_name"),
		NotificationEmail: appValues.String("notification_email"),

		SiteName: appValues.String("site_name"),
		BaseURL:  appValues.String("base_url"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		AdminName:     appValues.String("admin_name"),
		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked early, before attempting to
// connect, and the storage backend is restricted to the types this
// build actually supports.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.StorageType != "local" {
		return fmt.Errorf("unsupported storage_type %q (only 'local' is available)", appCfg.StorageType)
	}

	if coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key must be changed from the development default in production")
	}

	return nil
}
