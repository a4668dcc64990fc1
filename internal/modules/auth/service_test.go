package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkverse/core/internal/database"
	"github.com/inkverse/core/internal/models"
	"github.com/inkverse/core/internal/pkg/idp"
	"github.com/inkverse/core/internal/pkg/jwt"
	"github.com/inkverse/core/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubVerifier struct {
	ident *idp.Identity
	err   error
}

func (s stubVerifier) Verify(context.Context, string) (*idp.Identity, error) {
	return s.ident, s.err
}

func setupService(t *testing.T, verifier idp.Verifier) (*gorm.DB, *Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mailer := mail.New(mail.Config{Enable: false})
	svc := NewService(db, mailer, verifier, "Inkverse", func(token string) string {
		return "http://localhost:5173/verify-email/" + token
	})
	return db, svc
}

func TestSignup(t *testing.T) {
	db, svc := setupService(t, stubVerifier{})

	u, err := svc.Signup(SignupDTO{Name: "Alice", Email: " Alice@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, strings.HasPrefix(u.Username, "alice"))
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "secret1", u.Password)

	var count int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Once the account is verified, the same email is a conflict,
	// regardless of case.
	token, err := jwt.SignPurpose(u.ID, jwt.PurposeVerifyEmail, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(token))

	_, err = svc.Signup(SignupDTO{Name: "Alice2", Email: "Alice@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, errEmailTaken)
}

func TestSignupUnverifiedDuplicateResendsVerification(t *testing.T) {
	db, svc := setupService(t, stubVerifier{})

	u, err := svc.Signup(SignupDTO{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	// Signing up again before verifying is not a conflict: the existing
	// account gets a fresh verification link and no second row appears.
	again, err := svc.Signup(SignupDTO{Name: "Alice", Email: "alice@example.com", Password: "other-pass"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.False(t, again.IsVerified)
	assert.Equal(t, u.Password, again.Password)

	var count int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSignupGoogleCollision(t *testing.T) {
	db, svc := setupService(t, stubVerifier{})
	require.NoError(t, db.Create(&models.UserModel{
		Name: "G", Email: "g@example.com", Username: "g", GoogleAuth: true, IsVerified: true,
	}).Error)

	_, err := svc.Signup(SignupDTO{Name: "G", Email: "g@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, errGoogleAccount)
}

func TestVerifyEmailAndLogin(t *testing.T) {
	_, svc := setupService(t, stubVerifier{})

	u, err := svc.Signup(SignupDTO{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	// Unverified accounts cannot sign in yet.
	_, _, err = svc.Login(SigninDTO{Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, errNotVerified)

	token, err := jwt.SignPurpose(u.ID, jwt.PurposeVerifyEmail, time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(token))

	sessionToken, logged, err := svc.Login(SigninDTO{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := jwt.Parse(sessionToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Empty(t, claims.Purpose)
}

func TestVerifyEmailRejectsBadTokens(t *testing.T) {
	_, svc := setupService(t, stubVerifier{})

	assert.ErrorIs(t, svc.VerifyEmail("not-a-token"), errInvalidToken)

	// A session token is not a verification token.
	session, err := jwt.Sign("some-user", time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.VerifyEmail(session), errInvalidToken)
}

func TestLoginUnknownUser(t *testing.T) {
	_, svc := setupService(t, stubVerifier{})
	_, _, err := svc.Login(SigninDTO{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, errUserNotFound)
}

func TestGoogleAuthCreatesVerifiedAccount(t *testing.T) {
	db, svc := setupService(t, stubVerifier{ident: &idp.Identity{
		Subject: "sub-1", Email: "Bob@Example.com", EmailVerified: true,
		Name: "Bob", Picture: "https://pic.test/bob.png",
	}})

	token, u, err := svc.GoogleAuth(context.Background(), "google-id-token")
	require.NoError(t, err)
	assert.True(t, u.GoogleAuth)
	assert.True(t, u.IsVerified)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.Equal(t, "https://pic.test/bob.png", u.ProfilePic)

	claims, err := jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	// Sign-in again returns the same account.
	_, again, err := svc.GoogleAuth(context.Background(), "google-id-token")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGoogleAuthRejectsPasswordAccount(t *testing.T) {
	_, svc := setupService(t, stubVerifier{ident: &idp.Identity{
		Subject: "sub-1", Email: "alice@example.com", EmailVerified: true, Name: "Alice",
	}})

	_, err := svc.Signup(SignupDTO{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.GoogleAuth(context.Background(), "google-id-token")
	assert.ErrorIs(t, err, errPasswordAccount)
}

func TestGoogleAuthInvalidToken(t *testing.T) {
	_, svc := setupService(t, stubVerifier{err: idp.ErrInvalidToken})
	_, _, err := svc.GoogleAuth(context.Background(), "bad")
	assert.ErrorIs(t, err, idp.ErrInvalidToken)
}
