package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"arsip/internal/model"
	"arsip/internal/repository"
)

// UpdateUserInput changes profile and role. Nil fields are left as stored.
type UpdateUserInput struct {
	FullName    *string
	IsStaff     *bool
	IsSuperuser *bool
}

// passwordStrength reports the first rule the password breaks: minimum
// length, then upper case, lower case and digit.
func passwordStrength(field, password string, verr *ValidationError) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		verr.Add(field, fmt.Sprintf("Password minimal %d karakter", minPasswordLength))
		return
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	switch {
	case !upper:
		verr.Add(field, "Password harus mengandung huruf besar")
	case !lower:
		verr.Add(field, "Password harus mengandung huruf kecil")
	case !digit:
		verr.Add(field, "Password harus mengandung angka")
	}
}

func requireSuperuser(actor *model.User) error {
	if actor == nil || !actor.IsSuperuser {
		return ErrForbidden
	}
	return nil
}

func (s *authService) findUser(ctx context.Context, id string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) save(ctx context.Context, u *model.User) error {
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *authService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.opt.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (s *authService) ListUsers(ctx context.Context, actor *model.User, f repository.UserFilter) ([]model.User, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	f.Search = strings.TrimSpace(f.Search)
	return s.users.List(ctx, f)
}

func (s *authService) GetUser(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	return s.findUser(ctx, id)
}

func (s *authService) UpdateUser(ctx context.Context, actor *model.User, id string, in UpdateUserInput) (*model.User, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.IsSuperuser != nil && u.ID == actor.ID && *in.IsSuperuser != u.IsSuperuser {
		return nil, FieldError("is_superuser", "Tidak dapat mengubah status superuser sendiri")
	}
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.IsStaff != nil {
		u.IsStaff = *in.IsStaff
	}
	if in.IsSuperuser != nil {
		u.IsSuperuser = *in.IsSuperuser
	}
	// Superusers always keep staff rights.
	u.IsStaff = u.IsStaff || u.IsSuperuser
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user_updated", zap.String("user_id", u.ID), zap.String("by", actor.ID))
	return u, nil
}

// SetUserActive deactivates or restores an account. Deactivated users can
// neither log in nor use tokens issued earlier.
func (s *authService) SetUserActive(ctx context.Context, actor *model.User, id string, active bool) (*model.User, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.ID == actor.ID {
		return nil, FieldError("is_active", "Tidak dapat mengubah status akun sendiri")
	}
	u.IsActive = active
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user_status_changed", zap.String("user_id", u.ID), zap.Bool("active", active), zap.String("by", actor.ID))
	return u, nil
}

// ResetPassword sets another account's password without knowing the old one.
func (s *authService) ResetPassword(ctx context.Context, actor *model.User, id, password string) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}
	verr := &ValidationError{}
	passwordStrength("password", password, verr)
	if err := verr.OrNil(); err != nil {
		return err
	}
	u, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if u.PasswordHash, err = s.hash(password); err != nil {
		return err
	}
	if err := s.save(ctx, u); err != nil {
		return err
	}
	s.log.Info("password_reset", zap.String("user_id", u.ID), zap.String("by", actor.ID))
	return nil
}

// ChangePassword lets any signed-in user replace their own password.
func (s *authService) ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword string) error {
	if actor == nil {
		return ErrUnauthorized
	}
	verr := &ValidationError{}
	passwordStrength("new_password", newPassword, verr)
	if newPassword != "" && newPassword == oldPassword {
		verr.Add("new_password", "Password baru harus berbeda dari password lama")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	u, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return FieldError("old_password", "Password lama salah")
	}
	if u.PasswordHash, err = s.hash(newPassword); err != nil {
		return err
	}
	if err := s.save(ctx, u); err != nil {
		return err
	}
	s.log.Info("password_changed", zap.String("user_id", u.ID))
	return nil
}
