package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkverse/core/internal/models"
	"github.com/inkverse/core/internal/pkg/idp"
	"github.com/inkverse/core/internal/pkg/jwt"
	"github.com/inkverse/core/internal/pkg/mail"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionTTL = 7 * 24 * time.Hour
	verifyTTL  = 24 * time.Hour
	bcryptCost = 10

	// Failed password checks sleep before answering to blunt guessing.
	loginFailureDelay = 3 * time.Second
)

// Service implements signup, login, email verification, and Google
// sign-in. The identity verifier is injected so tests can stub it.
type Service struct {
	db          *gorm.DB
	mailer      *mail.Sender
	verifier    idp.Verifier
	siteName    string
	verifyURLFn func(token string) string
}

func NewService(db *gorm.DB, mailer *mail.Sender, verifier idp.Verifier, siteName string, verifyURLFn func(string) string) *Service {
	return &Service{
		db:          db,
		mailer:      mailer,
		verifier:    verifier,
		siteName:    siteName,
		verifyURLFn: verifyURLFn,
	}
}

// Signup registers a local account and sends the verification email.
func (s *Service) Signup(dto SignupDTO) (*models.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var existing models.UserModel
	err := s.db.First(&existing, "email = ?", email).Error
	if err == nil {
		if existing.GoogleAuth {
			return nil, errGoogleAccount
		}
		// An unverified account signing up again just gets a fresh
		// verification link; only a verified duplicate is a conflict.
		if !existing.IsVerified {
			if err := s.sendVerification(&existing); err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, errEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	username, err := s.generateUsername(email)
	if err != nil {
		return nil, err
	}

	u := models.UserModel{
		Name:           strings.TrimSpace(dto.Name),
		Email:          email,
		Username:       username,
		Password:       string(hash),
		ShowLikedBlogs: true,
		ShowSavedBlogs: true,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, err
	}

	if err := s.sendVerification(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyEmail flips the account's verified flag given a valid token.
func (s *Service) VerifyEmail(token string) error {
	claims, err := jwt.ParsePurpose(token, jwt.PurposeVerifyEmail)
	if err != nil {
		return errInvalidToken
	}

	res := s.db.Model(&models.UserModel{}).Where("id = ?", claims.UserID).Update("is_verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errUserNotFound
	}
	return nil
}

// Login checks credentials and returns a session token. Unverified users
// get a fresh verification mail and are rejected.
func (s *Service) Login(dto SigninDTO) (string, *models.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var u models.UserModel
	if err := s.db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}

	if u.GoogleAuth {
		return "", nil, errGoogleAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		time.Sleep(loginFailureDelay)
		return "", nil, errWrongPassword
	}

	if !u.IsVerified {
		if err := s.sendVerification(&u); err != nil {
			return "", nil, err
		}
		return "", nil, errNotVerified
	}

	token, err := jwt.Sign(u.ID, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

// GoogleAuth verifies a Google ID token and either logs in the linked
// account or silently creates a verified one.
func (s *Service) GoogleAuth(ctx context.Context, idToken string) (string, *models.UserModel, error) {
	ident, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return "", nil, err
	}
	email := strings.ToLower(ident.Email)

	var u models.UserModel
	err = s.db.First(&u, "email = ?", email).Error
	switch {
	case err == nil:
		if !u.GoogleAuth {
			return "", nil, errPasswordAccount
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		username, genErr := s.generateUsername(email)
		if genErr != nil {
			return "", nil, genErr
		}
		u = models.UserModel{
			Name:           ident.Name,
			Email:          email,
			Username:       username,
			ProfilePic:     ident.Picture,
			IsVerified:     true,
			GoogleAuth:     true,
			ShowLikedBlogs: true,
			ShowSavedBlogs: true,
		}
		if err := s.db.Create(&u).Error; err != nil {
			return "", nil, err
		}
	default:
		return "", nil, err
	}

	token, err := jwt.Sign(u.ID, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

// FollowerIDs returns ids of users following the given user.
func (s *Service) FollowerIDs(userID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.UserFollow{}).Where("followee_id = ?", userID).Pluck("follower_id", &ids).Error
	return ids, err
}

// FollowingIDs returns ids of users the given user follows.
func (s *Service) FollowingIDs(userID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.UserFollow{}).Where("follower_id = ?", userID).Pluck("followee_id", &ids).Error
	return ids, err
}

func (s *Service) sendVerification(u *models.UserModel) error {
	token, err := jwt.SignPurpose(u.ID, jwt.PurposeVerifyEmail, verifyTTL)
	if err != nil {
		return err
	}
	return s.mailer.SendVerification(u.Email, mail.VerificationData{
		Name:      u.Name,
		VerifyURL: s.verifyURLFn(token),
		SiteName:  s.siteName,
	})
}

// generateUsername derives a handle from the email local part plus a
// 5-character random suffix, retrying on collision.
func (s *Service) generateUsername(email string) (string, error) {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}

	for attempt := 0; attempt < 5; attempt++ {
		candidate := local + randomSuffix(5)
		var count int64
		if err := s.db.Model(&models.UserModel{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return local + randomSuffix(12), nil
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
