// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/devinnolab/proplanner/internal/app/store/users"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// When the users collection is empty and admin credentials are
// configured, the first admin account is created here so a fresh
// deployment has someone who can log in.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	store := userstore.New(deps.MongoDatabase)

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if appCfg.AdminEmail == "" || appCfg.AdminPassword == "" {
		logger.Warn("users collection is empty and no admin_email/admin_password configured; nobody can log in")
		return nil
	}

	u, err := store.Create(ctx, appCfg.AdminName, appCfg.AdminEmail, appCfg.AdminPassword, true)
	if err != nil {
		return fmt.Errorf("bootstrap admin user: %w", err)
	}

	logger.Info("bootstrapped first admin user",
		zap.String("user_id", u.HexID()),
		zap.String("email", u.Email))
	return nil
}
