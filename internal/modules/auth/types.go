package auth

import "errors"

var (
	errEmailTaken      = errors.New("user already exists with this email")
	errGoogleAccount   = errors.New("this email is registered with a google account, please use google sign-in")
	errPasswordAccount = errors.New("this email was registered without google, please sign in with your password")
	errUserNotFound    = errors.New("user not found")
	errWrongPassword   = errors.New("incorrect password")
	errNotVerified     = errors.New("please verify your email")
	errInvalidToken    = errors.New("invalid or expired verification token")
)

type SignupDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthDTO accepts the Google credential under either field name;
// older clients post it as accessToken.
type GoogleAuthDTO struct {
	IDToken     string `json:"idToken"`
	AccessToken string `json:"accessToken"`
}

func (d GoogleAuthDTO) credential() string {
	if d.IDToken != "" {
		return d.IDToken
	}
	return d.AccessToken
}

type sessionUser struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Username       string   `json:"username"`
	Bio            string   `json:"bio"`
	ProfilePic     string   `json:"profilePic"`
	ShowLikedBlogs bool     `json:"showLikedBlogs"`
	ShowSavedBlogs bool     `json:"showSavedBlogs"`
	Followers      []string `json:"followers"`
	Following      []string `json:"following"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}
