package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"arsip/internal/cache"
	"arsip/internal/model"
	"arsip/internal/repository"
	"arsip/internal/requestctx"
)

const minPasswordLength = 8

// AuthOptions configures token issuing and the login limiter.
type AuthOptions struct {
	Secret      []byte
	Issuer      string
	TokenTTL    time.Duration
	BcryptCost  int
	MaxAttempts int
	Window      time.Duration
}

// Session is a freshly issued bearer token.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type CreateUserInput struct {
	Username    string
	Password    string
	FullName    string
	IsStaff     bool
	IsSuperuser bool
}

// AuthService issues and verifies HS256 bearer tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	// Logout revokes the token until it would have expired.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a token to an active user.
	Authenticate(ctx context.Context, token string) (*model.User, error)
	// EnsureAdmin creates the first superuser when no user exists yet.
	EnsureAdmin(ctx context.Context, username, password string) error
	CreateUser(ctx context.Context, actor *model.User, in CreateUserInput) (*model.User, error)

	// Account management. Everything except ChangePassword is superuser only.
	ListUsers(ctx context.Context, actor *model.User, f repository.UserFilter) ([]model.User, error)
	GetUser(ctx context.Context, actor *model.User, id string) (*model.User, error)
	UpdateUser(ctx context.Context, actor *model.User, id string, in UpdateUserInput) (*model.User, error)
	SetUserActive(ctx context.Context, actor *model.User, id string, active bool) (*model.User, error)
	ResetPassword(ctx context.Context, actor *model.User, id, password string) error
	ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword string) error
}

type claims struct {
	Staff bool `json:"staff"`
	Super bool `json:"super"`
	jwt.RegisteredClaims
}

type authService struct {
	users repository.UserRepository
	cache cache.Cache
	log   *zap.Logger
	opt   AuthOptions
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, c cache.Cache, log *zap.Logger, opt AuthOptions) AuthService {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opt.TokenTTL <= 0 {
		opt.TokenTTL = 12 * time.Hour
	}
	if opt.BcryptCost == 0 {
		opt.BcryptCost = bcrypt.DefaultCost
	}
	if opt.Window <= 0 {
		opt.Window = 15 * time.Minute
	}
	return &authService{users: users, cache: c, log: log, opt: opt, now: time.Now}
}

func loginKey(username, ip string) string {
	return "login:" + strings.ToLower(username) + ":" + ip
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

func (s *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	key := loginKey(username, requestctx.ClientFrom(ctx).IP)
	if s.opt.MaxAttempts > 0 {
		n, err := s.cache.Incr(ctx, key, s.opt.Window)
		if err != nil {
			s.log.Warn("login_limiter_unavailable", zap.Error(err))
		} else if n > int64(s.opt.MaxAttempts) {
			s.log.Warn("login_rate_limited", zap.String("username", username))
			return nil, ErrTooManyAttempts
		}
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.log.Info("login_failed", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if err := s.cache.Del(ctx, key); err != nil {
		s.log.Warn("login_limiter_reset_failed", zap.Error(err))
	}
	tok, exp, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.log.Info("login_succeeded", zap.String("user_id", u.ID))
	return &Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

func (s *authService) issue(u *model.User) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.opt.TokenTTL)
	c := claims{
		Staff: u.IsStaff,
		Super: u.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.opt.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.opt.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tok, exp, nil
}

func (s *authService) parse(token string) (*claims, error) {
	var c claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.opt.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.opt.Issuer))
	}
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.opt.Secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if c.Subject == "" || c.ID == "" {
		return nil, ErrUnauthorized
	}
	return &c, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	c, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.cache.Exists(ctx, revokedKey(c.ID))
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	u, err := s.users.FindByID(ctx, c.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	ttl := c.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Flag(ctx, revokedKey(c.ID), ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	if username == "" || password == "" {
		s.log.Warn("admin_bootstrap_skipped", zap.String("reason", "ADMIN_USERNAME or ADMIN_PASSWORD not set"))
		return nil
	}
	u, err := s.create(ctx, CreateUserInput{
		Username:    username,
		Password:    password,
		FullName:    "Administrator",
		IsStaff:     true,
		IsSuperuser: true,
	})
	if err != nil {
		return err
	}
	s.log.Info("admin_bootstrapped", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return nil
}

func (s *authService) CreateUser(ctx context.Context, actor *model.User, in CreateUserInput) (*model.User, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	passwordStrength("password", in.Password, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

func (s *authService) create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	verr := &ValidationError{}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		verr.Add("username", "Username wajib diisi")
	}
	if len(in.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("Password minimal %d karakter", minPasswordLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		IsStaff:      in.IsStaff || in.IsSuperuser,
		IsSuperuser:  in.IsSuperuser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FieldError("username", "Username sudah digunakan")
		}
		return nil, err
	}
	return u, nil
}
