// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// the framework-level settings (ports, TLS, log level); AppConfig is
// everything specific to ProPlanner.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: proplanner-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Lead attachment storage configuration
	StorageType      string // Storage backend: "local" is the only supported type for now
	StorageLocalPath string // Local storage path (e.g., "./uploads/attachments")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// Email/SMTP configuration
	MailSMTPHost      string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort      int    // SMTP server port (e.g., 1025 for Mailpit, 587 for real providers)
	MailSMTPUser      string // SMTP username (blank disables sending)
	MailSMTPPass      string // SMTP password
	MailFrom          string // From email address
	MailFromName      string // From display name
	NotificationEmail string // Where new form submissions are announced

	// Public identity
	SiteName string // Display name used in client-facing emails
	BaseURL  string // e.g., "https://proplanner.app" or "http://localhost:3000"

	// Audit logging settings ("all", "db", "log", "off")
	AuditLogAuth  string
	AuditLogAdmin string

	// First-admin bootstrap: when the users collection is empty at
	// startup, an active admin account is created with these credentials
	// so a fresh deployment can log in.
	AdminName     string
	AdminEmail    string
	AdminPassword string
}
