package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/packlane/packlane-api/internal/config"
)

// Operator verifies the single configured operator identity that may request
// tokens. User management proper lives outside this service.
type Operator struct {
	name         string
	passwordHash string
}

// NewOperator creates an Operator from configuration. The password hash is
// expected to be bcrypt.
func NewOperator(cfg config.AuthConfig) *Operator {
	return &Operator{
		name:         cfg.OperatorName,
		passwordHash: cfg.OperatorPasswordHash,
	}
}

// Authenticate checks the supplied name and password against the configured
// operator. Returns ErrBadCredentials on any mismatch; the caller cannot tell
// whether the name or the password was wrong.
func (o *Operator) Authenticate(name, password string) error {
	nameMatch := subtle.ConstantTimeCompare([]byte(o.name), []byte(name)) == 1

	// Always run the bcrypt comparison so a bad name costs the same as a
	// bad password.
	err := bcrypt.CompareHashAndPassword([]byte(o.passwordHash), []byte(password))
	if err != nil || !nameMatch {
		return ErrBadCredentials
	}
	return nil
}
