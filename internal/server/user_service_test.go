package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcabrera/teamquote/internal/config"
	"github.com/mcabrera/teamquote/internal/db"
	"github.com/mcabrera/teamquote/internal/types"
)

// fakeUserStore keeps accounts in memory keyed by email.
type fakeUserStore struct {
	users map[string]*db.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*db.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (*db.User, error) {
	user := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.users[email] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	return f.users[email], nil
}

func testUserService(t *testing.T) (*UserService, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	// Lowest cost keeps the bcrypt work factor out of the test runtime
	svc := NewUserService(store, &config.PasswordConfig{BcryptCost: 10})
	return svc, store
}

func TestUserService_Register(t *testing.T) {
	svc, store := testUserService(t)

	user, err := svc.Register(context.Background(), &types.CreateUserRequest{
		Name:     "Maria Santos",
		Email:    "maria@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Maria Santos", user.Name)
	assert.Equal(t, "maria@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)

	// The stored hash must never be the raw password
	stored := store.users["maria@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := testUserService(t)

	req := &types.CreateUserRequest{Name: "Maria", Email: "maria@example.com", Password: "password123"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	var dup *ErrEmailAlreadyExists
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "maria@example.com", dup.Email)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := testUserService(t)

	_, err := svc.Register(context.Background(), &types.CreateUserRequest{
		Name: "Maria", Email: "maria@example.com", Password: "password123",
	})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "maria@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", user.Email)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	svc, _ := testUserService(t)

	_, err := svc.Register(context.Background(), &types.CreateUserRequest{
		Name: "Maria", Email: "maria@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &types.LoginRequest{
		Email:    "maria@example.com",
		Password: "wrong-password",
	})
	var invalid *ErrInvalidCredentials
	require.ErrorAs(t, err, &invalid)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	svc, _ := testUserService(t)

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	// Unknown email and wrong password must be indistinguishable
	var invalid *ErrInvalidCredentials
	require.ErrorAs(t, err, &invalid)
}
