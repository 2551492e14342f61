package users

import (
	"context"

	"github.com/efidev/issuetracker/model"
	"github.com/efidev/issuetracker/params"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserOptions struct {
	Username   string
	Password   string
	Role       string
	Company    *string
	Department *string
}

// UpdateUserOptions carries a selective update. Username, Password and Role
// follow omitted-means-unchanged semantics (nil leaves the stored value).
// Company and Department follow null-means-clear semantics and are always
// applied: nil clears the stored value.
type UpdateUserOptions struct {
	Username   *string
	Password   *string
	Role       *string
	Company    *string
	Department *string
}

type UserService struct {
	userRepo UserRepository
}

func validateScope(role string, company, department *string) error {
	if !model.IsValidRole(role) {
		return ErrInvalidRole
	}
	if role == model.RoleHOD || role == model.RoleViewer {
		if company == nil || *company == "" || department == nil || *department == "" {
			return ErrScopeRequired
		}
	}
	return nil
}

// CreateUser validates, hashes the password and inserts the account.
// Plaintext passwords are never persisted or logged.
func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	if opts.Username == "" {
		return nil, ErrUsernameRequired
	}
	if opts.Password == "" {
		return nil, ErrPasswordRequired
	}
	if len(opts.Password) < params.PasswordMinLength {
		return nil, ErrPasswordTooShort
	}
	if err := validateScope(opts.Role, opts.Company, opts.Department); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username:   opts.Username,
		Password:   string(passwordHash),
		Role:       opts.Role,
		Company:    opts.Company,
		Department: opts.Department,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the candidate password against the stored hash.
// bcrypt's comparison is constant-time on the digest.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err == ErrUserNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUser applies a selective update to an existing account.
func (s *UserService) UpdateUser(ctx context.Context, id uint, opts UpdateUserOptions) error {
	current, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	role := current.Role
	if opts.Role != nil {
		role = *opts.Role
	}
	if err := validateScope(role, opts.Company, opts.Department); err != nil {
		return err
	}

	columns := map[string]interface{}{
		"company":    opts.Company,
		"department": opts.Department,
	}
	if opts.Username != nil && *opts.Username != "" {
		columns["username"] = *opts.Username
	}
	if opts.Role != nil {
		columns["role"] = *opts.Role
	}
	if opts.Password != nil && *opts.Password != "" {
		if len(*opts.Password) < params.PasswordMinLength {
			return ErrPasswordTooShort
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		columns["password"] = string(passwordHash)
	}
	return s.userRepo.Updates(ctx, id, columns)
}

// DeleteUser removes the account with the given id. An actor can never
// delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, id uint, actorID uint) error {
	if id == actorID {
		return ErrSelfDeleteRefused
	}
	return s.userRepo.Delete(ctx, id)
}

func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}
