package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/intake-service/internal/cache"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/store"
)

// bcrypt's minimum cost keeps the suite fast
const testBcryptCost = 4

func newUserService(t *testing.T) *UserService {
	t.Helper()
	tabular := store.NewMemoryStore(domain.SheetHeaders())
	return NewUserService(tabular, NewSchemaCache(tabular, cache.NewMemoryCache()), testBcryptCost)
}

func createUser(t *testing.T, users *UserService, input CreateUserInput) *domain.User {
	t.Helper()
	user, err := users.Create(context.Background(), input)
	require.NoError(t, err)
	return user
}

func TestCreateAndAuthenticate(t *testing.T) {
	users := newUserService(t)
	created := createUser(t, users, CreateUserInput{
		Username: "carol",
		Password: "hunter2",
		Role:     domain.RoleAdmin,
		Team:     "IT",
	})
	require.Equal(t, domain.UserStatusActive, created.Status)
	require.Equal(t, domain.AllowedTypesWildcard, created.AllowedTypes)
	require.NotEmpty(t, created.Salt)
	require.NotContains(t, created.PasswordHash, "hunter2")

	user, err := users.Authenticate(context.Background(), "carol", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "carol", user.Username)

	// usernames compare case-insensitively
	_, err = users.Authenticate(context.Background(), "CAROL", "hunter2")
	require.NoError(t, err)

	_, err = users.Authenticate(context.Background(), "carol", "wrong")
	require.Equal(t, "UNAUTHORIZED", toCode(err))

	_, err = users.Authenticate(context.Background(), "nobody", "hunter2")
	require.Equal(t, "UNAUTHORIZED", toCode(err))
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	users := newUserService(t)
	createUser(t, users, CreateUserInput{Username: "carol", Password: "pw", Role: domain.RoleUser})

	_, err := users.Create(context.Background(), CreateUserInput{Username: "Carol", Password: "pw", Role: domain.RoleUser})
	require.Equal(t, "CONFLICT", toCode(err))
}

func TestCreateValidation(t *testing.T) {
	users := newUserService(t)

	_, err := users.Create(context.Background(), CreateUserInput{Username: "", Password: "pw", Role: domain.RoleUser})
	require.Equal(t, "VALIDATION_FAILED", toCode(err))

	_, err = users.Create(context.Background(), CreateUserInput{Username: "x", Password: "pw", Role: "SUPERUSER"})
	require.Equal(t, "VALIDATION_FAILED", toCode(err))
}

func TestSetStatusBlocksLogin(t *testing.T) {
	users := newUserService(t)
	createUser(t, users, CreateUserInput{Username: "carol", Password: "pw", Role: domain.RoleUser})

	require.NoError(t, users.SetStatus(context.Background(), "carol", domain.UserStatusInactive))

	_, err := users.Authenticate(context.Background(), "carol", "pw")
	require.Equal(t, "UNAUTHORIZED", toCode(err))

	require.NoError(t, users.SetStatus(context.Background(), "carol", domain.UserStatusActive))
	_, err = users.Authenticate(context.Background(), "carol", "pw")
	require.NoError(t, err)

	require.Equal(t, "NOT_FOUND", toCode(users.SetStatus(context.Background(), "nobody", domain.UserStatusActive)))
	require.Equal(t, "VALIDATION_FAILED", toCode(users.SetStatus(context.Background(), "carol", "SLEEPING")))
}

func TestChangePasswordAuthorization(t *testing.T) {
	users := newUserService(t)
	admin := createUser(t, users, CreateUserInput{Username: "root", Password: "adminpw", Role: domain.RoleAdmin})
	member := createUser(t, users, CreateUserInput{Username: "carol", Password: "old", Role: domain.RoleUser})

	// self-service change
	require.NoError(t, users.ChangePassword(context.Background(), member, "carol", "fresh"))
	_, err := users.Authenticate(context.Background(), "carol", "old")
	require.Equal(t, "UNAUTHORIZED", toCode(err))
	_, err = users.Authenticate(context.Background(), "carol", "fresh")
	require.NoError(t, err)

	// non-admins cannot touch other accounts
	err = users.ChangePassword(context.Background(), member, "root", "stolen")
	require.Equal(t, "FORBIDDEN", toCode(err))

	// admins can
	require.NoError(t, users.ChangePassword(context.Background(), admin, "carol", "reset"))
	_, err = users.Authenticate(context.Background(), "carol", "reset")
	require.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	users := newUserService(t)
	createUser(t, users, CreateUserInput{Username: "a", Password: "pw", Role: domain.RoleUser, AllowedTypes: "COMPLAINT"})
	createUser(t, users, CreateUserInput{Username: "b", Password: "pw", Role: domain.RoleAdmin})

	list, err := users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "COMPLAINT", list[0].AllowedTypes)
	require.Equal(t, domain.RoleAdmin, list[1].Role)
}

func TestUserSheetHeaderMismatchFailsClosed(t *testing.T) {
	headers := domain.SheetHeaders()
	headers[domain.SheetUsers] = []string{"Username", "Role"} // credentials columns missing
	tabular := store.NewMemoryStore(headers)
	users := NewUserService(tabular, NewSchemaCache(tabular, cache.NewMemoryCache()), testBcryptCost)

	_, err := users.Create(context.Background(), CreateUserInput{Username: "carol", Password: "pw", Role: domain.RoleUser})
	require.Equal(t, "STORAGE_CORRUPTION", toCode(err))

	_, err = users.Authenticate(context.Background(), "carol", "pw")
	require.Equal(t, "STORAGE_CORRUPTION", toCode(err))
}
