package users

import (
	"context"
	"errors"
	"log/slog"

	"github.com/efidev/issuetracker/model"
	"golang.org/x/crypto/bcrypt"
)

// defaultAccounts are created on first start and after a database reset so
// the application is never left without a working login. The passwords are
// placeholders and must be rotated after first login. The viewer account
// carries no scope on purpose; an admin assigns one later.
var defaultAccounts = []struct {
	username string
	password string
	role     string
}{
	{"admin", "admin123", model.RoleAdmin},
	{"viewer", "viewer123", model.RoleViewer},
}

// EnsureBootstrapUsers creates the default accounts that do not exist yet.
// Unlike CreateUser it skips scope validation, since the accounts start
// without a company or department.
func (s *UserService) EnsureBootstrapUsers(ctx context.Context) error {
	for _, account := range defaultAccounts {
		_, err := s.userRepo.GetByUsername(ctx, account.username)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &model.User{
			Username: account.username,
			Password: string(hash),
			Role:     account.role,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				continue
			}
			return err
		}
		slog.Info("Created default account", "username", account.username, "role", account.role)
	}
	return nil
}
