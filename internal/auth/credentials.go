// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/tomtom215/homenav/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 16

// bcryptPrefix identifies a pre-hashed password ($2a$, $2b$, $2y$).
const bcryptPrefix = "$2"

// CredentialStore holds the single admin identity and the signing secret.
// It is immutable after construction.
type CredentialStore struct {
	secret       []byte
	username     string
	passwordHash []byte
	hashErr      error
}

// NewCredentialStore derives the effective password hash from cfg. A value
// in AdminPasswordHash wins; an AdminPassword that already looks like a bcrypt
// hash is used as-is; any other AdminPassword is hashed once here.
//
// Construction never fails. Call Validate before serving traffic.
func NewCredentialStore(cfg *config.SecurityConfig) *CredentialStore {
	s := &CredentialStore{
		secret:   []byte(cfg.JWTSecret),
		username: strings.TrimSpace(cfg.AdminUsername),
	}

	switch {
	case cfg.AdminPasswordHash != "":
		s.passwordHash = []byte(cfg.AdminPasswordHash)
	case strings.HasPrefix(cfg.AdminPassword, bcryptPrefix):
		s.passwordHash = []byte(cfg.AdminPassword)
	case cfg.AdminPassword != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			s.hashErr = err
		} else {
			s.passwordHash = hash
		}
	}
	return s
}

// Validate returns every problem with the admin identity and secret. An
// empty result means the process may start.
func (s *CredentialStore) Validate() []error {
	var errs []error

	switch {
	case len(s.secret) == 0:
		errs = append(errs, configError("SECRET_KEY is required"))
	case len(s.secret) < MinSecretLength:
		errs = append(errs, configError("SECRET_KEY must be at least %d characters, got %d", MinSecretLength, len(s.secret)))
	}

	if s.username == "" {
		errs = append(errs, configError("ADMIN_USERNAME is required"))
	}

	switch {
	case s.hashErr != nil:
		errs = append(errs, configError("ADMIN_PASSWORD could not be hashed: %v", s.hashErr))
	case len(s.passwordHash) == 0:
		errs = append(errs, configError("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"))
	case !strings.HasPrefix(string(s.passwordHash), bcryptPrefix):
		errs = append(errs, configError("ADMIN_PASSWORD_HASH is not a bcrypt hash"))
	default:
		if _, err := bcrypt.Cost(s.passwordHash); err != nil {
			errs = append(errs, configError("ADMIN_PASSWORD_HASH is malformed: %v", err))
		}
	}

	return errs
}

// Authenticate reports whether username and password match the admin
// identity. The bcrypt comparison always runs so a wrong username costs the
// same as a wrong password.
func (s *CredentialStore) Authenticate(username, password string) bool {
	if len(s.passwordHash) == 0 {
		return false
	}
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// Username returns the admin username.
func (s *CredentialStore) Username() string {
	return s.username
}

// Secret returns the token signing secret.
func (s *CredentialStore) Secret() []byte {
	return s.secret
}
