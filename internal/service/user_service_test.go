package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lkemp/userbase/internal/domain"
	"github.com/lkemp/userbase/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore is an in-memory store.UserStore with optional forced errors.
type fakeUserStore struct {
	users     map[string]domain.User
	forcedErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	if _, exists := f.users[user.ID]; exists {
		return store.ErrUserExists
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]domain.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	users := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

var _ store.UserStore = (*fakeUserStore)(nil)

func newTestService(t *testing.T) (UserService, *fakeUserStore) {
	t.Helper()
	fake := newFakeUserStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(fake, logger), fake
}

func TestCreateUser(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	t.Run("success stamps createdAt", func(t *testing.T) {
		user, err := svc.CreateUser(ctx, "u1", "Ann", "a@b.com", time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Contains(t, fake.users, "u1")
	})

	t.Run("duplicate id surfaces ErrUserExists", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "u1", "Ann", "a@b.com", time.Time{})
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrUserExists)
	})

	t.Run("invalid data never reaches the store", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "u2", "Bea", "not-an-email", time.Time{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.NotContains(t, fake.users, "u2")
	})
}

func TestGetUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "u1", "Ann", "a@b.com", time.Time{})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		user, err := svc.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ann", user.Name)
	})

	t.Run("absence is an explicit error, not a panic", func(t *testing.T) {
		_, err := svc.GetUser(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestListUsers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = svc.CreateUser(ctx, "u1", "Ann", "a@b.com", time.Time{})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "u2", "Bea", "b@c.com", time.Time{})
	require.NoError(t, err)

	users, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdateUser(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "u1", "Ann", "a@b.com", time.Time{})
	require.NoError(t, err)

	t.Run("updates only provided fields", func(t *testing.T) {
		name := "Anna"
		user, err := svc.UpdateUser(ctx, "u1", &name, nil)
		require.NoError(t, err)
		assert.Equal(t, "Anna", user.Name)
		assert.Equal(t, "a@b.com", user.Email)
		assert.Equal(t, "Anna", fake.users["u1"].Name)
	})

	t.Run("not found", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.UpdateUser(ctx, "missing", &name, nil)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("invalid email rejected by store validation", func(t *testing.T) {
		email := "broken"
		_, err := svc.UpdateUser(ctx, "u1", nil, &email)
		require.Error(t, err)
		// The stored record keeps its previous email.
		assert.Equal(t, "a@b.com", fake.users["u1"].Email)
	})
}

func TestDeleteUser(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "u1", "Ann", "a@b.com", time.Time{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, "u1"))
	assert.NotContains(t, fake.users, "u1")

	err = svc.DeleteUser(ctx, "u1")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
