package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
	util "github.com/spec-kit/intake-service/pkg/util"
)

// UserService manages dashboard accounts stored on the user sheet. A header
// mismatch on this sheet fails closed: writing through a shifted mapping
// would silently misplace credentials.
type UserService struct {
	store      store.TabularStore
	schema     *SchemaCache
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(tabular store.TabularStore, schema *SchemaCache, bcryptCost int) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{store: tabular, schema: schema, bcryptCost: bcryptCost}
}

// CreateUserInput describes a new account.
type CreateUserInput struct {
	Username     string
	Password     string
	Role         domain.Role
	Team         string
	AllowedTypes string
}

// Authenticate verifies credentials and returns the active account.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, _, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != domain.UserStatusActive {
		return nil, util.NewUnauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password+user.Salt)) != nil {
		return nil, util.NewUnauthorized("invalid credentials")
	}
	return user, nil
}

// GetByUsername returns an account by its case-insensitive username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, _, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.NewNotFound("user", map[string]any{"username": username})
	}
	return user, nil
}

// Create registers a new account. Usernames are unique case-insensitively.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || strings.TrimSpace(input.Password) == "" {
		return nil, util.NewValidationError("username and password are required", nil)
	}
	if input.Role != domain.RoleAdmin && input.Role != domain.RoleUser {
		return nil, util.NewValidationError("invalid role", map[string]any{"role": string(input.Role)})
	}
	existing, _, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.NewConflict("username already taken", map[string]any{"username": username})
	}

	salt := newSalt()
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password+salt), s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	allowed := strings.TrimSpace(input.AllowedTypes)
	if allowed == "" {
		allowed = domain.AllowedTypesWildcard
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Salt:         salt,
		Role:         input.Role,
		Status:       domain.UserStatusActive,
		Team:         strings.TrimSpace(input.Team),
		AllowedTypes: allowed,
	}

	cols, err := s.userColumns(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.AppendRow(ctx, domain.SheetUsers, domain.UserToRow(user, cols)); err != nil {
		return nil, err
	}
	s.schema.InvalidateUsers(ctx)
	return user, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	cols, err := s.userColumns(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ReadRange(ctx, domain.SheetUsers, 2, 0, 0)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, domain.UserFromRow(row, cols))
	}
	return users, nil
}

// SetStatus activates or deactivates an account.
func (s *UserService) SetStatus(ctx context.Context, username string, status domain.UserStatus) error {
	if status != domain.UserStatusActive && status != domain.UserStatusInactive {
		return util.NewValidationError("invalid user status", map[string]any{"status": string(status)})
	}
	user, rowNum, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return util.NewNotFound("user", map[string]any{"username": username})
	}
	cols, err := s.userColumns(ctx)
	if err != nil {
		return err
	}
	if err := s.store.WriteCell(ctx, domain.SheetUsers, rowNum, cols.Status, string(status)); err != nil {
		return err
	}
	s.schema.InvalidateUsers(ctx)
	return nil
}

// ChangePassword updates a password. Any authenticated user may change
// their own; only an Admin may change someone else's.
func (s *UserService) ChangePassword(ctx context.Context, actor *domain.User, username, newPassword string) error {
	if actor == nil {
		return util.NewUnauthorized("authentication required")
	}
	if strings.TrimSpace(newPassword) == "" {
		return util.NewValidationError("new password is required", nil)
	}
	if !strings.EqualFold(actor.Username, username) && actor.Role != domain.RoleAdmin {
		return util.NewForbidden("only admins may change another user's password")
	}
	user, rowNum, err := s.findUser(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return util.NewNotFound("user", map[string]any{"username": username})
	}

	salt := newSalt()
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword+salt), s.bcryptCost)
	if err != nil {
		return util.NewInternalError(err)
	}
	cols, err := s.userColumns(ctx)
	if err != nil {
		return err
	}
	if err := s.store.WriteCell(ctx, domain.SheetUsers, rowNum, cols.PasswordHash, string(hash)); err != nil {
		return err
	}
	if err := s.store.WriteCell(ctx, domain.SheetUsers, rowNum, cols.Salt, salt); err != nil {
		return err
	}
	s.schema.InvalidateUsers(ctx)
	return nil
}

func (s *UserService) userColumns(ctx context.Context) (domain.UserColumns, error) {
	cols, err := s.schema.UserColumns(ctx)
	if err != nil {
		// fail closed rather than guessing at column positions
		return domain.UserColumns{}, util.NewStorageCorruption("user sheet header mismatch", err)
	}
	return cols, nil
}

func (s *UserService) findUser(ctx context.Context, username string) (*domain.User, int, error) {
	cols, err := s.userColumns(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.store.ReadRange(ctx, domain.SheetUsers, 2, 0, 0)
	if err != nil {
		return nil, 0, err
	}
	for i, row := range rows {
		user := domain.UserFromRow(row, cols)
		if strings.EqualFold(user.Username, strings.TrimSpace(username)) {
			return &user, i + 2, nil
		}
	}
	return nil, 0, nil
}

func newSalt() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
