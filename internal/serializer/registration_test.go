package serializer

import (
	"encoding/json"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	in := RegistrationInput{
		Email:    str("a@example.com"),
		Username: str("a"),
		Password: str("p"),
	}
	u, err := in.NewUser()
	if err != nil {
		t.Fatalf("NewUser() error: %v", err)
	}
	if u.Email != "a@example.com" || u.Username != "a" {
		t.Fatalf("unexpected user: %+v", u)
	}
	// 凭证必须走哈希，不存明文
	if u.PasswordHash == "p" || u.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", u.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("p")); err != nil {
		t.Fatalf("stored hash does not verify the password: %v", err)
	}
}

// A password at the 72-byte hash input limit still round-trips; one
// byte more is rejected before hashing so no unusable credential can
// ever be stored.
func TestNewUserPasswordAtLimit(t *testing.T) {
	t.Parallel()

	pw := strings.Repeat("p", 72)
	in := RegistrationInput{Email: str("a@example.com"), Username: str("a"), Password: str(pw)}
	u, err := in.NewUser()
	if err != nil {
		t.Fatalf("NewUser() error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)); err != nil {
		t.Fatalf("stored hash does not verify the password: %v", err)
	}
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		in     RegistrationInput
		fields []string
	}{
		{"everything missing", RegistrationInput{}, []string{"email", "username", "password"}},
		{"bad email", RegistrationInput{Email: str("not-an-email"), Username: str("a"), Password: str("p")}, []string{"email"}},
		{"blank username", RegistrationInput{Email: str("a@example.com"), Username: str(" "), Password: str("p")}, []string{"username"}},
		{"blank password", RegistrationInput{Email: str("a@example.com"), Username: str("a"), Password: str("")}, []string{"password"}},
		{"username too long", RegistrationInput{Email: str("a@example.com"), Username: str(strings.Repeat("u", 151)), Password: str("p")}, []string{"username"}},
		{"password too long", RegistrationInput{Email: str("a@example.com"), Username: str("a"), Password: str(strings.Repeat("p", 73))}, []string{"password"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.in.NewUser()
			if err == nil {
				t.Fatal("expected validation error")
			}
			fields := fieldErrors(t, err)
			for _, f := range tc.fields {
				if len(fields[f]) == 0 {
					t.Fatalf("no message for field %q: %v", f, fields)
				}
			}
		})
	}
}

// The registration response must never carry password material.
func TestRegistrationOutputOmitsPassword(t *testing.T) {
	t.Parallel()

	in := RegistrationInput{
		Email:    str("a@example.com"),
		Username: str("a"),
		Password: str("p"),
	}
	u, err := in.NewUser()
	if err != nil {
		t.Fatalf("NewUser() error: %v", err)
	}
	b, err := json.Marshal(Registration(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(strings.ToLower(string(b)), "password") {
		t.Fatalf("response leaks password field: %s", b)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m) != 2 || m["email"] != "a@example.com" || m["username"] != "a" {
		t.Fatalf("unexpected body: %s", b)
	}
}
