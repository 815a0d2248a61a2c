// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package auth provides single-admin authentication for HomeNav.

Key Components:

  - CredentialStore: the admin identity and signing secret, validated at startup
  - LoginLimiter: per-IP sliding window of failed logins (5 per 900s)
  - TokenManager: HS256 session tokens carrying sub, jti, iat and exp
  - RevocationLedger: jti deny-list, in memory or in BadgerDB
  - Service: login, logout, verify and cleanup over the components above
  - Handlers, RequireAuth, OptionalAuth: the HTTP surface

Login Flow:

 1. LoginLimiter.Check rejects a locked-out IP with *RateLimitError. The
    credentials are not compared.
 2. CredentialStore.Authenticate compares the username in constant time and
    always runs bcrypt.
 3. A failure is recorded against the IP. A success clears the IP and issues
    a token with a fresh uuid jti.

Verification fails closed. A bad signature, an algorithm other than HS256, a
missing or past exp, a revoked jti, or a ledger error all produce the same
("", false) result, and the HTTP layer answers 401 without saying which.

Logout is best effort and always answers 200. The token's jti is written to
the ledger with the token's own expiry so PruneExpired can drop it later.

Usage Example:

	creds := auth.NewCredentialStore(&cfg.Security)
	if errs := creds.Validate(); len(errs) > 0 {
	    for _, err := range errs {
	        logging.Error().Err(err).Msg("Invalid auth configuration")
	    }
	    os.Exit(1)
	}

	ledger, err := auth.NewRevocationLedger(&cfg.Security)
	if err != nil {
	    return err
	}
	defer ledger.Close()

	tokens := auth.NewTokenManager(creds.Secret(), cfg.Security.TokenTTL, ledger)
	limiter := auth.NewLoginLimiter(cfg.Security.LoginMaxAttempts, cfg.Security.LoginWindow)
	svc := auth.NewService(creds, limiter, tokens, ledger)

	r.Post("/api/auth/login", auth.NewHandlers(svc).Login)
	r.With(svc.RequireAuth).Get("/api/auth/me", auth.NewHandlers(svc).Me)
*/
package auth
