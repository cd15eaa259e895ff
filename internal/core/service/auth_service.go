package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const maxNameLength = 100

// AuthService implements login, logout, account creation and profile edits.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionManager
	hasher   ports.PasswordHasher
	lockout  *LockoutTracker
	log      zerolog.Logger
	now      func() time.Time

	// dummyHash is compared against when the email is unknown so both
	// branches of a failed login cost one hash comparison.
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionManager,
	hasher ports.PasswordHasher,
	lockout *LockoutTracker,
	log zerolog.Logger,
) *AuthService {
	dummy, err := hasher.Hash(domain.NewID())
	if err != nil {
		log.Error().Err(err).Msg("failed to prepare dummy password hash")
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		lockout:  lockout,
		log:      log,
		now:      time.Now,

		dummyHash: dummy,
	}
}

// Login checks the lockout state, verifies the password and issues a session.
// Unknown emails count as failures so the response never reveals whether an
// account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email y contraseña son requeridos")
	}

	if st := s.lockout.IsLocked(ctx, email); st.Locked {
		return nil, &domain.LockoutError{Minutes: st.LockoutMinutes}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	if !s.hasher.Compare(hash, password) || user == nil {
		st := s.lockout.RecordAttempt(ctx, email, false)
		if st.Locked {
			return nil, &domain.LockoutError{Minutes: st.LockoutMinutes}
		}
		s.log.Info().Str("email", email).Int("attempts_remaining", st.AttemptsRemaining).Msg("failed login")
		return nil, &domain.CredentialsError{AttemptsRemaining: st.AttemptsRemaining}
	}

	s.lockout.RecordAttempt(ctx, email, true)

	home, ok := user.Role.HomePath()
	if !ok {
		s.log.Error().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login refused: stored user has unknown role")
		return nil, fmt.Errorf("login %s: %w", user.ID, domain.ErrForbidden)
	}

	issued, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return &ports.LoginResult{
		User:         user,
		Session:      issued.Session,
		Cookie:       issued.Cookie,
		RedirectPath: "/" + issued.Session.AccessHash + home,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, cookie string) error {
	return s.sessions.Revoke(ctx, cookie)
}

// CreateUser validates and stores a new account.
func (s *AuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	name := domain.StripTags(in.Name)

	var msgs []string
	if !domain.IsEmail(email) {
		msgs = append(msgs, "Formato de email inválido")
	}
	if name == "" {
		msgs = append(msgs, "El nombre es obligatorio")
	} else if len([]rune(name)) > maxNameLength {
		msgs = append(msgs, "El nombre es demasiado largo (máximo 100 caracteres)")
	}
	if err := ValidatePassword(in.Password); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			msgs = append(msgs, ve.Messages...)
		}
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}
	if _, err := domain.ParseRole(string(in.Role)); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           domain.NewID(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        in.Phone,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

// UpdateProfile applies the provided fields. A password change requires the
// current password.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := domain.StripTags(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("El nombre es obligatorio")
		}
		if len([]rune(name)) > maxNameLength {
			return nil, domain.NewValidationError("El nombre es demasiado largo (máximo 100 caracteres)")
		}
		user.Name = name
	}

	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if !domain.IsEmail(email) {
			return nil, domain.NewValidationError("Formato de email inválido")
		}
		if email != user.Email {
			other, err := s.users.FindByEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, domain.ErrEmailTaken
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, domain.NewValidationError("Debes proporcionar tu contraseña actual")
		}
		if !s.hasher.Compare(user.PasswordHash, in.CurrentPassword) {
			return nil, domain.NewValidationError("Contraseña actual incorrecta")
		}
		if err := ValidatePassword(in.NewPassword); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
