package application

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/stands-ims/config"
	"github.com/oksasatya/stands-ims/internal/domain/entity"
	"github.com/oksasatya/stands-ims/pkg/helpers"
	"github.com/oksasatya/stands-ims/pkg/mailer"
)

type accountFixture struct {
	store  *memStore
	svc    *AccountService
	pub    *fakePublisher
	avatar *fakeAvatars
}

func newAccountFixture(t *testing.T) accountFixture {
	t.Helper()
	_, rdb := newRedis(t)
	s := newMemStore()
	pub := &fakePublisher{}
	av := &fakeAvatars{}
	cfg := &config.Config{
		AppName:          "stands-ims",
		CompanyName:      "StAnds IMS",
		TimeZone:         "UTC",
		SessionTTL:       time.Hour,
		MailSendEnabled:  true,
		VerifyEmailURL:   "http://app.test/verify",
		ResetPasswordURL: "http://app.test/reset",
	}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	svc := NewAccountService(accountRepo{s}, profileRepo{s}, memTx{s}, jwt, rdb, pub, av, cfg, quietLogger())
	return accountFixture{store: s, svc: svc, pub: pub, avatar: av}
}

func registerInput(username string) RegisterInput {
	return RegisterInput{
		AccountInput: entity.AccountInput{
			Username:    username,
			Email:       username + "@example.com",
			FirstName:   "Alvin",
			PhoneNumber: "+254 701 234 567",
		},
		Password: "s3cret-pass",
	}
}

func TestAccountService_Register_CreatesProfile(t *testing.T) {
	f := newAccountFixture(t)

	ap, err := f.svc.Register(context.Background(), registerInput("alvinm"))
	require.NoError(t, err)

	assert.Len(t, f.store.accounts, 1)
	assert.Len(t, f.store.profiles, 1)
	assert.Contains(t, f.store.profiles, ap.Account.ID)
	assert.Equal(t, "+254701234567", ap.Account.PhoneNumber)
	assert.True(t, helpers.CompareHashAndPassword(ap.Account.PasswordHash, "s3cret-pass"))

	require.Len(t, f.pub.jobs, 1)
	job := f.pub.jobs[0].(mailer.EmailJob)
	assert.Equal(t, "alvinm@example.com", job.To)
	assert.Equal(t, "welcome", job.Data["Type"])
}

func TestAccountService_Register_ProfileFailureRollsBack(t *testing.T) {
	f := newAccountFixture(t)
	f.store.failProfileCreate = true

	_, err := f.svc.Register(context.Background(), registerInput("alvinm"))

	require.Error(t, err)
	assert.Empty(t, f.store.accounts)
	assert.Empty(t, f.store.profiles)
	assert.Empty(t, f.pub.jobs)
}

func TestAccountService_Register_Conflicts(t *testing.T) {
	f := newAccountFixture(t)
	_, err := f.svc.Register(context.Background(), registerInput("alvinm"))
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), registerInput("alvinm"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	in := registerInput("other")
	in.Email = "ALVINM@example.com"
	_, err = f.svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAccountService_Register_Validation(t *testing.T) {
	f := newAccountFixture(t)

	in := registerInput("alvinm")
	in.Password = "short"
	_, err := f.svc.Register(context.Background(), in)
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")

	in = registerInput("alvinm")
	in.PhoneNumber = "0701"
	_, err = f.svc.Register(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Enter a valid phone number", verr.Fields["phone_number"])
}

func TestAccountService_LoginRefreshLogout(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerInput("alvinm"))
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "alvinm", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, pair, err := f.svc.Login(ctx, "alvinm@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "alvinm", res.Username)

	sess, ok, err := helpers.LoadSession(ctx, f.svc.Redis, pair.SessionID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.AccountID, sess.AccountID)

	rotated, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.SessionID, rotated.SessionID)

	_, ok, _ = helpers.LoadSession(ctx, f.svc.Redis, pair.SessionID)
	assert.False(t, ok, "old session is gone after rotation")

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old refresh token cannot be replayed")

	require.NoError(t, f.svc.Logout(ctx, rotated.SessionID))
	_, err = f.svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_InactiveAccount(t *testing.T) {
	f := newAccountFixture(t)
	ap, err := f.svc.Register(context.Background(), registerInput("alvinm"))
	require.NoError(t, err)
	a := f.store.accounts[ap.Account.ID]
	a.IsActive = false
	f.store.accounts[a.ID] = a

	_, _, err = f.svc.Login(context.Background(), "alvinm", "s3cret-pass")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAccountService_UpdateProfile(t *testing.T) {
	f := newAccountFixture(t)
	ap, err := f.svc.Register(context.Background(), registerInput("alvinm"))
	require.NoError(t, err)
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)

	got, err := f.svc.UpdateProfile(context.Background(), ap.Account.ID, UpdateProfileInput{
		Account: entity.AccountUpdate{LastName: "Mukuna"},
		Profile: entity.ProfileInput{FullName: "Alvin Mukuna", DOB: &dob, Gender: "M"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Mukuna", got.Account.LastName)
	assert.Equal(t, "Alvin Mukuna", f.store.profiles[ap.Account.ID].FullName)
	require.Len(t, f.pub.jobs, 2)
	assert.Equal(t, "profile_updated", f.pub.jobs[1].(mailer.EmailJob).Data["Type"])

	_, err = f.svc.UpdateProfile(context.Background(), ap.Account.ID, UpdateProfileInput{
		Profile: entity.ProfileInput{Gender: "Q"},
	})
	var verr *entity.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_UploadAvatar(t *testing.T) {
	f := newAccountFixture(t)
	ap, err := f.svc.Register(context.Background(), registerInput("alvinm"))
	require.NoError(t, err)

	url, err := f.svc.UploadAvatar(context.Background(), ap.Account.ID, strings.NewReader("img"), "me.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "avatars/"+ap.Account.ID+".png", f.avatar.path)
	assert.Equal(t, url, f.store.accounts[ap.Account.ID].AvatarURL)

	f.svc.Avatars = nil
	_, err = f.svc.UploadAvatar(context.Background(), ap.Account.ID, strings.NewReader("img"), "me.png", "image/png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestAccountService_VerificationFlow(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	ap, err := f.svc.Register(ctx, registerInput("alvinm"))
	require.NoError(t, err)

	link, already, err := f.svc.StartVerification(ctx, ap.Account.ID)
	require.NoError(t, err)
	assert.False(t, already)
	require.True(t, strings.HasPrefix(link, "http://app.test/verify?token="))
	token := strings.TrimPrefix(link, "http://app.test/verify?token=")

	assert.ErrorIs(t, f.svc.ConfirmVerification(ctx, "bogus"), ErrInvalidToken)
	require.NoError(t, f.svc.ConfirmVerification(ctx, token))
	assert.True(t, f.store.accounts[ap.Account.ID].IsVerified)
	assert.ErrorIs(t, f.svc.ConfirmVerification(ctx, token), ErrInvalidToken, "tokens are single use")

	_, already, err = f.svc.StartVerification(ctx, ap.Account.ID)
	require.NoError(t, err)
	assert.True(t, already)
}

func TestAccountService_PasswordReset(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerInput("alvinm"))
	require.NoError(t, err)

	link, err := f.svc.StartPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, link)

	link, err = f.svc.StartPasswordReset(ctx, "alvinm@example.com")
	require.NoError(t, err)
	token := strings.TrimPrefix(link, "http://app.test/reset?token=")

	require.NoError(t, f.svc.ConfirmPasswordReset(ctx, token, "brand-new-pass"))
	_, _, err = f.svc.Login(ctx, "alvinm", "brand-new-pass")
	assert.NoError(t, err)
	assert.ErrorIs(t, f.svc.ConfirmPasswordReset(ctx, token, "again-pass"), ErrInvalidToken)
}

func TestAccountService_ConcurrentConfirmsUseTokenOnce(t *testing.T) {
	f := newAccountFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, registerInput("alvinm"))
	require.NoError(t, err)

	link, err := f.svc.StartPasswordReset(ctx, "alvinm@example.com")
	require.NoError(t, err)
	token := strings.TrimPrefix(link, "http://app.test/reset?token=")

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.ConfirmPasswordReset(ctx, token, "brand-new-pass")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
	assert.Equal(t, 1, succeeded)
}
