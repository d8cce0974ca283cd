package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brinda-08/Quiz/internal/auth"
	"github.com/brinda-08/Quiz/internal/models"
	pkgauth "github.com/brinda-08/Quiz/pkg/auth"
	pkglogger "github.com/brinda-08/Quiz/pkg/logger"
)

// UserRepository defines the credential store operations used by services.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	AppendScore(ctx context.Context, userID string, entry models.ScoreEntry) error
}

// PendingAdminRepository defines the pending admin store operations.
type PendingAdminRepository interface {
	Create(ctx context.Context, p *models.PendingAdmin) (*models.PendingAdmin, error)
	GetByID(ctx context.Context, id string) (*models.PendingAdmin, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.PendingAdmin, error)
	List(ctx context.Context) ([]*models.PendingAdmin, error)
	Delete(ctx context.Context, id string) error
	CreateFromUser(ctx context.Context, user *models.User) (*models.PendingAdmin, error)
	Promote(ctx context.Context, id string) (*models.User, error)
}

// SuperadminCredentials is the configured identifier/secret pair that logs in
// without a stored record.
type SuperadminCredentials struct {
	Username string
	Password string
}

// matches compares both fields in constant time.
func (c SuperadminCredentials) matches(identifier, password string) bool {
	if c.Username == "" || c.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(identifier))
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password))
	return userOK&passOK == 1
}

// AuthService handles registration, OTP and login flows.
type AuthService struct {
	users       UserRepository
	pending     PendingAdminRepository
	tm          *auth.TokenManager
	otp         *auth.OTPIssuer
	hasher      *pkgauth.Hasher
	email       EmailService
	timing      *auth.TimingDelay
	superadmin  SuperadminCredentials
	dummyHash   string
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewAuthService(
	users UserRepository,
	pending PendingAdminRepository,
	tm *auth.TokenManager,
	otp *auth.OTPIssuer,
	hasher *pkgauth.Hasher,
	email EmailService,
	timing *auth.TimingDelay,
	superadmin SuperadminCredentials,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	// Compared against when a login names an unknown account, so both
	// failure paths pay for one bcrypt comparison at the configured cost.
	dummyHash, err := hasher.Hash("no-such-account")
	if err != nil {
		logger.Warn("failed to prepare login timing hash", slog.Any("error", err))
	}

	return &AuthService{
		users:       users,
		pending:     pending,
		tm:          tm,
		otp:         otp,
		hasher:      hasher,
		email:       email,
		timing:      timing,
		superadmin:  superadmin,
		dummyHash:   dummyHash,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// RegisterResult reports whether a registration created an account or an
// admin request.
type RegisterResult struct {
	Message string
	Pending bool
}

// VerifyRegistrationResult is returned by VerifyOtpAndRegister.
type VerifyRegistrationResult struct {
	Message        string `json:"message"`
	Success        bool   `json:"success"`
	IsRegistration bool   `json:"isRegistration"`
}

// LoginResult carries either a session token or, for plain users, the
// identity hints the client needs to continue with the OTP step.
type LoginResult struct {
	Token    string      `json:"token,omitempty"`
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role"`
	UserID   string      `json:"userId,omitempty"`
	Message  string      `json:"message"`
}

// ensureIdentityFree returns ErrConflict when username or email is already
// held by a user or a pending admin request.
func (s *AuthService) ensureIdentityFree(ctx context.Context, username, email string) error {
	if _, err := s.users.FindByUsernameOrEmail(ctx, username, email); err == nil {
		return fmt.Errorf("%w: Username already taken", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to look up user", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if _, err := s.pending.FindByUsernameOrEmail(ctx, username, email); err == nil {
		return fmt.Errorf("%w: Username already taken", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to look up pending admin", slog.Any("error", err))
		return models.ErrInternalServer
	}

	return nil
}

// Register creates a user, or a pending admin request when requestAdmin is set.
func (s *AuthService) Register(ctx context.Context, username, password string, requestAdmin bool) (*RegisterResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrInvalidInput)
	}

	if err := s.ensureIdentityFree(ctx, username, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgauth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if requestAdmin {
		if _, err := s.pending.Create(ctx, &models.PendingAdmin{Username: username, PasswordHash: hash}); err != nil {
			return nil, s.storeError("failed to create pending admin", err)
		}
		s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
			EventType: pkglogger.EventAdminRequested,
			Actor:     username,
		})
		return &RegisterResult{Message: "Admin access request sent to Superadmin", Pending: true}, nil
	}

	user, err := s.users.Create(ctx, &models.User{Username: username, PasswordHash: hash, Role: models.RoleUser})
	if err != nil {
		return nil, s.storeError("failed to create user", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventRegister,
		Actor:     user.ID,
		Success:   true,
	})
	return &RegisterResult{Message: "Registered successfully"}, nil
}

// RequestOtp issues a registration code, creating an unverified user when no
// record holds the username or email yet.
func (s *AuthService) RequestOtp(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", models.ErrInvalidInput)
	}
	if err := models.ValidateEmail(email); err != nil {
		return err
	}

	if _, err := s.pending.FindByUsernameOrEmail(ctx, username, email); err == nil {
		return fmt.Errorf("%w: an admin request already exists for this username or email", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return s.storeError("failed to look up pending admin", err)
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case errors.Is(err, models.ErrNotFound):
		hash, err := s.hasher.Hash(password)
		if err != nil {
			if errors.Is(err, pkgauth.ErrPasswordTooLong) {
				return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
			}
			s.logger.Error("failed to hash password", slog.Any("error", err))
			return models.ErrInternalServer
		}
		user = &models.User{Username: username, Email: email, PasswordHash: hash, Role: models.RoleUser}
		if _, err := s.otp.Issue(user); err != nil {
			s.logger.Error("failed to issue OTP", slog.Any("error", err))
			return models.ErrInternalServer
		}
		if user, err = s.users.Create(ctx, user); err != nil {
			return s.storeError("failed to create user", err)
		}
	case err != nil:
		return s.storeError("failed to look up user", err)
	default:
		if user.Email == "" {
			return errNoEmailOnRecord
		}
		user.PasswordHash = ""
		if _, err := s.otp.Issue(user); err != nil {
			s.logger.Error("failed to issue OTP", slog.Any("error", err))
			return models.ErrInternalServer
		}
		if user, err = s.users.Update(ctx, user); err != nil {
			return s.storeError("failed to store OTP", err)
		}
	}

	return s.dispatchOTP(ctx, user, OTPPurposeRegistration)
}

// VerifyOtpAndRegister checks a registration code. On success the email is
// marked verified, and with requestAdmin the account is moved to the pending
// admin queue.
func (s *AuthService) VerifyOtpAndRegister(ctx context.Context, email, code string, requestAdmin bool) (*VerifyRegistrationResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and otp are required", models.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.storeError("failed to look up user by email", err)
	}

	if !s.otp.Verify(user, code, s.otp.Now()) {
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventOTPVerified,
			Actor:         user.ID,
			FailureReason: "invalid_otp",
		})
		return nil, models.ErrInvalidOTP
	}

	// Only a fresh, unverified user may become an admin request.
	if requestAdmin && (user.Role != models.RoleUser || user.IsEmailVerified) {
		return nil, fmt.Errorf("%w: this account cannot request admin access", models.ErrConflict)
	}

	user.ClearOTP()
	user.IsEmailVerified = true

	if requestAdmin {
		if _, err := s.pending.CreateFromUser(ctx, user); err != nil {
			return nil, s.storeError("failed to move user to pending admins", err)
		}
		s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
			EventType: pkglogger.EventAdminRequested,
			Actor:     user.Username,
		})
		return &VerifyRegistrationResult{
			Message:        "Registration successful! Admin access request sent to Superadmin.",
			Success:        true,
			IsRegistration: true,
		}, nil
	}

	user.PasswordHash = ""
	if _, err := s.users.Update(ctx, user); err != nil {
		return nil, s.storeError("failed to mark email verified", err)
	}

	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventOTPVerified,
		Actor:     user.ID,
		Success:   true,
	})
	return &VerifyRegistrationResult{
		Message:        "Registration successful! You can now login.",
		Success:        true,
		IsRegistration: true,
	}, nil
}

// Login checks the superadmin pair first, then the credential store. Admins
// get a token straight away; users get identity hints and continue with OTP.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	start := time.Now()
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: username or email and password are required", models.ErrInvalidInput)
	}

	if s.superadmin.matches(identifier, password) {
		token, err := s.tm.IssueSuperadminToken(identifier)
		if err != nil {
			s.logger.Error("failed to issue superadmin token", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType: pkglogger.EventLogin,
			Actor:     identifier,
			Success:   true,
			Metadata:  map[string]string{"role": string(models.RoleSuperadmin)},
		})
		return &LoginResult{
			Token:    token,
			Username: identifier,
			Role:     models.RoleSuperadmin,
			Message:  "Superadmin login successful",
		}, nil
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, identifier, normalizeEmail(identifier))
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to look up user for login", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		_ = s.hasher.Compare(s.dummyHash, password)
		s.loginFailed(ctx, start, "", "user_not_found")
		return nil, models.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.loginFailed(ctx, start, user.ID, "invalid_password")
		return nil, models.ErrInvalidCredentials
	}

	s.timing.WaitFrom(ctx, start, true)

	result := &LoginResult{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		UserID:   user.ID,
	}

	if user.Role.Elevated() {
		token, err := s.tm.IssueSessionToken(user)
		if err != nil {
			s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		result.Token = token
		result.Message = "Admin login successful"
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType: pkglogger.EventLogin,
			Actor:     user.ID,
			Success:   true,
			Metadata:  map[string]string{"role": string(user.Role)},
		})
		return result, nil
	}

	result.Message = "User found, please verify OTP"
	return result, nil
}

func (s *AuthService) loginFailed(ctx context.Context, start time.Time, actor, reason string) {
	s.logger.Info("login failed: invalid credentials")
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType:     pkglogger.EventLogin,
		Actor:         actor,
		FailureReason: reason,
	})
	s.timing.WaitFrom(ctx, start, false)
}

// errNoEmailOnRecord is returned when a code is requested for an account that
// has no stored address. Codes only ever go to the stored address.
var errNoEmailOnRecord = fmt.Errorf("%w: this account has no email address on record", models.ErrInvalidInput)

// RequestLoginOtp checks the password, then regenerates the login code for an
// existing user and emails it to the stored address.
func (s *AuthService) RequestLoginOtp(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", models.ErrInvalidInput)
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return s.storeError("failed to look up user", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventOTPIssued,
			Actor:         user.ID,
			FailureReason: "invalid_password",
			Metadata:      map[string]string{"purpose": string(OTPPurposeLogin)},
		})
		return models.ErrInvalidCredentials
	}
	if user.Email == "" {
		return errNoEmailOnRecord
	}

	user.PasswordHash = ""
	if _, err := s.otp.Issue(user); err != nil {
		s.logger.Error("failed to issue OTP", slog.Any("error", err))
		return models.ErrInternalServer
	}
	if user, err = s.users.Update(ctx, user); err != nil {
		return s.storeError("failed to store OTP", err)
	}

	return s.dispatchOTP(ctx, user, OTPPurposeLogin)
}

// VerifyOtpAndLogin checks a login code and issues a session token carrying
// the stored role.
func (s *AuthService) VerifyOtpAndLogin(ctx context.Context, username, code string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	code = strings.TrimSpace(code)
	if username == "" || code == "" {
		return nil, fmt.Errorf("%w: username and otp are required", models.ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, s.storeError("failed to look up user", err)
	}

	if !s.otp.Verify(user, code, s.otp.Now()) {
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventLogin,
			Actor:         user.ID,
			FailureReason: "invalid_otp",
		})
		return nil, models.ErrInvalidOTP
	}

	user.ClearOTP()
	user.PasswordHash = ""
	if user, err = s.users.Update(ctx, user); err != nil {
		return nil, s.storeError("failed to clear OTP", err)
	}

	token, err := s.tm.IssueSessionToken(user)
	if err != nil {
		s.logger.Error("failed to issue session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventLogin,
		Actor:     user.ID,
		Success:   true,
		Metadata:  map[string]string{"role": string(user.Role)},
	})

	return &LoginResult{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		UserID:   user.ID,
		Message:  "Login successful",
	}, nil
}

func (s *AuthService) dispatchOTP(ctx context.Context, user *models.User, purpose OTPPurpose) error {
	if err := s.email.SendOTPEmail(ctx, user.Email, *user.OTPCode, purpose, *user.OTPExpiresAt); err != nil {
		s.logger.Error("OTP stored but not delivered",
			slog.String("user_id", user.ID),
			slog.String("email", pkglogger.SanitizedEmail(user.Email)),
			slog.Any("error", err))
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     pkglogger.EventOTPIssued,
			Actor:         user.ID,
			FailureReason: "dispatch_failed",
		})
		return models.ErrOTPDispatchFailed
	}

	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventOTPIssued,
		Actor:     user.ID,
		Success:   true,
		Metadata:  map[string]string{"purpose": string(purpose)},
	})
	return nil
}

// storeError passes sentinel errors through and logs anything else as an
// internal failure.
func (s *AuthService) storeError(msg string, err error) error {
	return passSentinel(s.logger, msg, err)
}

func passSentinel(logger *slog.Logger, msg string, err error) error {
	for _, sentinel := range []error{
		models.ErrNotFound,
		models.ErrConflict,
		models.ErrInvalidInput,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	logger.Error(msg, slog.Any("error", err))
	return models.ErrInternalServer
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
