package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/jonesrussell/shorty/internal/config"
)

// ErrInvalidCredentials reports a failed username/password check. Unknown
// users and wrong passwords are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies a username/password pair against a credential
// backend. The verified username becomes the link owner identity.
type Authenticator interface {
	Authenticate(username, password string) error
}

// StaticAuthenticator verifies credentials against bcrypt hashes from the
// service configuration.
type StaticAuthenticator struct {
	hashes map[string]string
}

// NewStaticAuthenticator creates an authenticator from configured users.
func NewStaticAuthenticator(users []config.UserCredential) *StaticAuthenticator {
	hashes := make(map[string]string, len(users))
	for _, u := range users {
		hashes[u.Username] = u.PasswordHash
	}

	return &StaticAuthenticator{hashes: hashes}
}

// Authenticate checks the password against the stored bcrypt hash.
func (a *StaticAuthenticator) Authenticate(username, password string) error {
	hash, ok := a.hashes[username]
	if !ok {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}
