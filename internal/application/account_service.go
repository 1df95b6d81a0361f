package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/stands-ims/config"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	repo "github.com/oksasatya/stands-ims/internal/domain/repository"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/mailer"
	mailtpl "github.com/oksasatya/stands-ims/pkg/mailer/templates"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 30 * time.Minute
)

// EmailPublisher queues email jobs for the worker.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarStore uploads an avatar and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type AccountService struct {
	Accounts repo.AccountRepository
	Profiles repo.ProfileRepository
	Tx       repo.TxManager
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Mail     EmailPublisher // optional
	Avatars  AvatarStore    // optional
	Cfg      *config.Config
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

func NewAccountService(
	accounts repo.AccountRepository,
	profiles repo.ProfileRepository,
	tx repo.TxManager,
	jwt *helpers.JWTManager,
	rdb *redis.Client,
	mail EmailPublisher,
	avatars AvatarStore,
	cfg *config.Config,
	logger logrus.FieldLogger,
) *AccountService {
	return &AccountService{
		Accounts: accounts,
		Profiles: profiles,
		Tx:       tx,
		JWT:      jwt,
		Redis:    rdb,
		Mail:     mail,
		Avatars:  avatars,
		Cfg:      cfg,
		Logger:   logger,
		Now:      time.Now,
	}
}

type TokenPair struct {
	SessionID          string
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	entity.AccountInput
	Password string `json:"password"`
}

// AccountProfile is an account together with its profile.
type AccountProfile struct {
	Account *entity.Account
	Profile *entity.Profile
}

type LoginResponse struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// Register creates the account and then its profile in one transaction, and
// queues a welcome email once both are stored.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AccountProfile, error) {
	if msg := helpers.PasswordProblem(in.Password); msg != "" {
		return nil, &entity.ValidationError{Fields: map[string]string{"password": msg}}
	}
	now := s.Now()
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	acc, err := entity.NewAccount(in.AccountInput, hash, now)
	if err != nil {
		return nil, err
	}
	prof := entity.NewProfile(acc.ID, now)

	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Accounts.Create(ctx, acc); err != nil {
			return err
		}
		return s.Profiles.Create(ctx, prof)
	})
	if errors.Is(err, repo.ErrConflict) {
		if _, uerr := s.Accounts.GetByUsername(ctx, acc.Username); uerr == nil {
			return nil, ErrUsernameTaken
		}
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}

	s.enqueue(ctx, acc.Email, mailtpl.NewWelcomeData(s.Cfg, displayName(acc), acc.Email,
		mailtpl.WithTime(now, s.Cfg.Location())))
	return &AccountProfile{Account: acc, Profile: prof}, nil
}

// Authenticate checks the password of the account named by identifier. Usernames
// are tried first since they may contain "@", then emails.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (*entity.Account, error) {
	a, err := s.Accounts.GetByUsername(ctx, identifier)
	if errors.Is(err, repo.ErrNotFound) && strings.Contains(identifier, "@") {
		a, err = s.Accounts.GetByEmail(ctx, identifier)
	}
	if err != nil || a == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !a.IsActive {
		return nil, ErrAccountInactive
	}
	return a, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AccountService) IssueTokens(ctx context.Context, a *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}

	sess := helpers.Session{
		ID:          sid,
		AccountID:   a.ID,
		Username:    a.Username,
		Email:       a.Email,
		IsStaff:     a.IsStaff,
		IsSuperuser: a.IsSuperuser,
		CreatedAt:   s.Now(),
	}
	if err := helpers.SaveSession(ctx, s.Redis, sess, s.sessionTTL()); err != nil {
		return TokenPair{}, fmt.Errorf("save session: %w", err)
	}

	return TokenPair{SessionID: sid, AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AccountService) Login(ctx context.Context, identifier, password string) (*LoginResponse, TokenPair, error) {
	a, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{AccountID: a.ID, Username: a.Username, Email: a.Email}, pair, nil
}

// Refresh rotates the session behind refreshToken and issues a new token pair.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	sess, ok, err := helpers.LoadSession(ctx, s.Redis, claims.SessionID)
	if err != nil || !ok || sess.AccountID != claims.AccountID {
		return TokenPair{}, ErrInvalidCredentials
	}
	a, err := s.Accounts.GetByID(ctx, claims.AccountID)
	if err != nil || !a.IsActive {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := helpers.DeleteSession(ctx, s.Redis, claims.SessionID); err != nil {
		s.Logger.WithError(err).WithField("sid", claims.SessionID).Warn("delete old session failed")
	}
	return s.IssueTokens(ctx, a)
}

func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return helpers.DeleteSession(ctx, s.Redis, sessionID)
}

func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*AccountProfile, error) {
	a, err := s.Accounts.GetByID(ctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	p, err := s.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &AccountProfile{Account: a, Profile: p}, nil
}

type UpdateProfileInput struct {
	Account entity.AccountUpdate
	Profile entity.ProfileInput
}

// UpdateProfile applies account and profile changes together and notifies the owner.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*AccountProfile, error) {
	ap, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	if err := ap.Account.Apply(in.Account, now); err != nil {
		return nil, err
	}
	if err := ap.Profile.Apply(in.Profile, now); err != nil {
		return nil, err
	}
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Accounts.Update(ctx, ap.Account); err != nil {
			return err
		}
		return s.Profiles.Update(ctx, ap.Profile)
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if changes := changedFields(in); len(changes) > 0 {
		s.enqueue(ctx, ap.Account.Email, mailtpl.NewProfileUpdatedData(s.Cfg, displayName(ap.Account), ap.Account.Email, changes,
			mailtpl.WithTime(now, s.Cfg.Location())))
	}
	return ap, nil
}

// UploadAvatar stores the image and points the account at it.
func (s *AccountService) UploadAvatar(ctx context.Context, accountID string, r io.Reader, filename, contentType string) (string, error) {
	if s.Avatars == nil {
		return "", ErrStorageUnavailable
	}
	a, err := s.Accounts.GetByID(ctx, accountID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}
	url, err := s.Avatars.Upload(ctx, helpers.AvatarObjectPath(a.ID, filename), contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	a.AvatarURL = url
	if err := s.Accounts.Update(ctx, a); err != nil {
		return "", fmt.Errorf("update account: %w", err)
	}
	return url, nil
}

// StartVerification issues an email verification link. already is true when the
// account is verified and nothing was issued.
func (s *AccountService) StartVerification(ctx context.Context, accountID string) (link string, already bool, err error) {
	a, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", false, ErrAccountNotFound
	}
	if a.IsVerified {
		return "", true, nil
	}
	tok, err := helpers.GenToken()
	if err != nil {
		return "", false, err
	}
	if err := s.Redis.Set(ctx, helpers.KeyVerifyToken(tok), a.ID, verifyTokenTTL).Err(); err != nil {
		return "", false, fmt.Errorf("store verify token: %w", err)
	}
	link = s.Cfg.VerifyEmailURL + "?token=" + tok
	s.enqueue(ctx, a.Email, mailtpl.NewVerifyEmailData(s.Cfg, displayName(a), a.Email, link,
		mailtpl.WithTime(s.Now(), s.Cfg.Location()),
		mailtpl.WithExpiresIn(verifyTokenTTL, s.Cfg.Location())))
	return link, false, nil
}

func (s *AccountService) ConfirmVerification(ctx context.Context, token string) error {
	id, err := s.consumeToken(ctx, helpers.KeyVerifyToken(token))
	if err != nil {
		return err
	}
	if err := s.Accounts.SetVerified(ctx, id); err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	return nil
}

// StartPasswordReset issues a reset link when email belongs to an account. It
// returns an empty link otherwise so callers cannot tell the difference.
func (s *AccountService) StartPasswordReset(ctx context.Context, email string) (string, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		s.Logger.WithField("email", email).Info("password reset for unknown email")
		return "", nil
	}
	tok, err := helpers.GenToken()
	if err != nil {
		return "", err
	}
	if err := s.Redis.Set(ctx, helpers.KeyResetToken(tok), a.ID, resetTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	link := s.Cfg.ResetPasswordURL + "?token=" + tok
	s.enqueue(ctx, a.Email, mailtpl.NewForgotPasswordData(s.Cfg, displayName(a), a.Email, link,
		mailtpl.WithTime(s.Now(), s.Cfg.Location()),
		mailtpl.WithExpiresIn(resetTokenTTL, s.Cfg.Location())))
	return link, nil
}

func (s *AccountService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if msg := helpers.PasswordProblem(newPassword); msg != "" {
		return &entity.ValidationError{Fields: map[string]string{"new_password": msg}}
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	id, err := s.consumeToken(ctx, helpers.KeyResetToken(token))
	if err != nil {
		return err
	}
	if err := s.Accounts.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// consumeToken reads and deletes a link token in one step so it works once.
func (s *AccountService) consumeToken(ctx context.Context, key string) (string, error) {
	id, err := s.Redis.GetDel(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrInvalidToken
	case err != nil:
		return "", fmt.Errorf("consume token: %w", err)
	case id == "":
		return "", ErrInvalidToken
	}
	return id, nil
}

func (s *AccountService) enqueue(ctx context.Context, to string, data map[string]any) {
	if s.Mail == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: mailtpl.Universal, Data: data}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("to", to).Warn("enqueue email failed")
	}
}

func (s *AccountService) sessionTTL() time.Duration {
	if s.Cfg != nil && s.Cfg.SessionTTL > 0 {
		return s.Cfg.SessionTTL
	}
	return 24 * time.Hour
}

func displayName(a *entity.Account) string {
	if a.FirstName != "" {
		return a.FirstName
	}
	return a.Username
}

func changedFields(in UpdateProfileInput) map[string]string {
	ch := map[string]string{}
	if in.Account.FirstName != "" {
		ch["first_name"] = in.Account.FirstName
	}
	if in.Account.LastName != "" {
		ch["last_name"] = in.Account.LastName
	}
	if in.Account.PhoneNumber != "" {
		ch["phone_number"] = "updated"
	}
	if in.Profile.FullName != "" {
		ch["full_name"] = in.Profile.FullName
	}
	if in.Profile.DOB != nil {
		ch["dob"] = "updated"
	}
	if in.Profile.Gender != "" {
		ch["gender"] = in.Profile.Gender
	}
	return ch
}
