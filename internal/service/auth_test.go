package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"arsip/internal/cache"
	"arsip/internal/model"
	"arsip/internal/repository"
	repoMocks "arsip/internal/repository/mocks"
	"arsip/internal/requestctx"
)

var testSecret = []byte("test-secret")

func newTestAuth(t *testing.T, users *repoMocks.MockUserRepository) (*authService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewAuthService(users, cache.NewRedisFromClient(client, "t:"), nil, AuthOptions{
		Secret:      testSecret,
		Issuer:      "arsip",
		TokenTTL:    time.Hour,
		BcryptCost:  bcrypt.MinCost,
		MaxAttempts: 3,
		Window:      time.Minute,
	}).(*authService)
	return svc, mr
}

func userWithPassword(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{ID: "u-1", Username: "admin", FullName: "Admin", PasswordHash: string(hash), IsStaff: true, IsActive: true}
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	svc, _ := newTestAuth(t, users)
	u := userWithPassword(t, "rahasia123")
	users.On("FindByUsername", mock.Anything, "admin").Return(u, nil)
	users.On("FindByID", mock.Anything, "u-1").Return(u, nil)

	sess, err := svc.Login(ctx, "admin", "rahasia123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, u, sess.User)

	var c claims
	_, err = jwt.ParseWithClaims(sess.Token, &c, func(*jwt.Token) (any, error) { return testSecret, nil })
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.Subject)
	assert.True(t, c.Staff)
	assert.False(t, c.Super)
	assert.NotEmpty(t, c.ID)

	got, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	users.AssertExpectations(t)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(users *repoMocks.MockUserRepository, u *model.User)
		wantErr    error
	}{
		{
			name:     "wrong password",
			username: "admin",
			password: "salah",
			setupMocks: func(users *repoMocks.MockUserRepository, u *model.User) {
				users.On("FindByUsername", mock.Anything, "admin").Return(u, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "whatever",
			setupMocks: func(users *repoMocks.MockUserRepository, u *model.User) {
				users.On("FindByUsername", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "inactive user",
			username: "admin",
			password: "rahasia123",
			setupMocks: func(users *repoMocks.MockUserRepository, u *model.User) {
				u.IsActive = false
				users.On("FindByUsername", mock.Anything, "admin").Return(u, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:       "empty credentials",
			setupMocks: func(users *repoMocks.MockUserRepository, u *model.User) {},
			wantErr:    ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(repoMocks.MockUserRepository)
			svc, _ := newTestAuth(t, users)
			tt.setupMocks(users, userWithPassword(t, "rahasia123"))

			_, err := svc.Login(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginRateLimit(t *testing.T) {
	ctx := requestctx.WithClient(context.Background(), requestctx.Client{IP: "10.0.0.7"})
	users := new(repoMocks.MockUserRepository)
	svc, mr := newTestAuth(t, users)
	users.On("FindByUsername", mock.Anything, "admin").Return(userWithPassword(t, "rahasia123"), nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, "admin", "salah")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := svc.Login(ctx, "admin", "rahasia123")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Login(ctx, "admin", "rahasia123")
	require.NoError(t, err)
	assert.False(t, mr.Exists("t:login:admin:10.0.0.7"))
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	svc, mr := newTestAuth(t, users)
	u := userWithPassword(t, "rahasia123")
	users.On("FindByUsername", mock.Anything, "admin").Return(u, nil)

	sess, err := svc.Login(ctx, "admin", "rahasia123")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, sess.Token))

	_, err = svc.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Len(t, mr.Keys(), 1)
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	svc, _ := newTestAuth(t, users)

	_, err := svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "u-1", ID: "x", Issuer: "arsip", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	forged, err := other.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, forged)
	assert.ErrorIs(t, err, ErrUnauthorized)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := svc.issue(&model.User{ID: "u-1"})
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the first superuser", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		svc, _ := newTestAuth(t, users)
		users.On("Count", mock.Anything).Return(0, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "admin" && u.IsSuperuser && u.IsStaff &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rahasia123")) == nil
		})).Return(nil)

		require.NoError(t, svc.EnsureAdmin(ctx, "admin", "rahasia123"))
		users.AssertExpectations(t)
	})

	t.Run("existing users are left alone", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		svc, _ := newTestAuth(t, users)
		users.On("Count", mock.Anything).Return(2, nil)

		require.NoError(t, svc.EnsureAdmin(ctx, "admin", "rahasia123"))
		users.AssertExpectations(t)
	})
}

func TestAuthService_CreateUser(t *testing.T) {
	ctx := context.Background()
	super := &model.User{ID: "root", IsSuperuser: true, IsStaff: true}

	users := new(repoMocks.MockUserRepository)
	svc, _ := newTestAuth(t, users)

	_, err := svc.CreateUser(ctx, staff, CreateUserInput{Username: "x", Password: "rahasia123"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateUser(ctx, super, CreateUserInput{Username: "x", Password: "short"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(ctx, super, CreateUserInput{Username: "x", Password: "rahasia123"})
	var weak *ValidationError
	require.ErrorAs(t, err, &weak)
	assert.Equal(t, "Password harus mengandung huruf besar", weak.Fields["password"])

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()
	_, err = svc.CreateUser(ctx, super, CreateUserInput{Username: "budi", Password: "Rahasia123"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Username sudah digunakan", verr.Fields["username"])

	users.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	u, err := svc.CreateUser(ctx, super, CreateUserInput{Username: "sari", Password: "Rahasia123", FullName: "Sari", IsStaff: true})
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.False(t, u.IsSuperuser)
	users.AssertExpectations(t)
}
