package serializer

import (
	"net/mail"
	"strings"

	"personal-apis/internal/domain"
	"personal-apis/internal/errs"
	"personal-apis/pkg/utils"
)

const (
	usernameMaxLen  = 150
	emailMaxLen     = 254
	passwordMaxLen  = 72 // bcrypt 只取前 72 字节，超出必须在入参就拒绝
	msgUsernameLong = "Ensure this field has no more than 150 characters."
	msgPasswordLong = "Ensure this field has no more than 72 characters."
	msgEmailInvalid = "Enter a valid email address."
)

// RegistrationInput 注册入参。password 只进不出（write-only）
type RegistrationInput struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// RegisteredUser is the registration response body. The password never
// appears here in any form.
type RegisteredUser struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// NewUser validates the payload and builds a user with the password
// already passed through the credential hash. No partial user escapes:
// any field error aborts before hashing.
func (in RegistrationInput) NewUser() (domain.User, error) {
	v := errs.NewValidation()

	var email, username string
	switch {
	case in.Email == nil:
		v.Add("email", msgRequired)
	case strings.TrimSpace(*in.Email) == "":
		v.Add("email", msgBlank)
	default:
		email = strings.TrimSpace(*in.Email)
		if _, err := mail.ParseAddress(email); err != nil || len(email) > emailMaxLen {
			v.Add("email", msgEmailInvalid)
		}
	}

	switch {
	case in.Username == nil:
		v.Add("username", msgRequired)
	case strings.TrimSpace(*in.Username) == "":
		v.Add("username", msgBlank)
	default:
		username = strings.TrimSpace(*in.Username)
		if len(username) > usernameMaxLen {
			v.Add("username", msgUsernameLong)
		}
	}

	switch {
	case in.Password == nil:
		v.Add("password", msgRequired)
	case *in.Password == "":
		v.Add("password", msgBlank)
	case len(*in.Password) > passwordMaxLen:
		v.Add("password", msgPasswordLong)
	}

	if !v.Empty() {
		return domain.User{}, v
	}
	return domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: utils.HashPassword(*in.Password),
	}, nil
}

// Registration renders the created user.
func Registration(u domain.User) RegisteredUser {
	return RegisteredUser{Email: u.Email, Username: u.Username}
}
