// Package auth implements the stateless authentication core: password hashing,
// signed bearer-token issuance and verification, and credential authentication.
//
// # Overview
//
// Authentication is fully stateless. A successful login issues a compact
// HMAC-SHA256 signed token carrying a single claim (the user ID); every later
// request proves identity by presenting that token. No session record is kept
// server-side, so validity is purely a function of the signature and the clock.
//
// # Key Components
//
// Password Hasher: bcrypt with an embedded per-password salt
//
//	hasher := auth.NewPasswordHasher()
//	digest, err := hasher.Hash("secret")
//	ok := hasher.Verify("secret", digest)
//
// Token Codec: issue and parse signed, expiring tokens
//
//	codec := auth.NewTokenCodec(secret, 24*time.Hour)
//	token, err := codec.Issue(user.ID)
//	userID, err := codec.Parse(token)  // ErrTokenInvalid / ErrTokenExpired
//
// Principal Resolver: maps stored users to request principals
//
//	resolver := auth.NewResolver(store)
//	principal, err := resolver.ResolveByEmail("alice@example.com")
//
// Manager: orchestrates lookup + verification for login
//
//	manager := auth.NewManager(store, hasher)
//	principal, err := manager.Authenticate(ctx, email, password)
//	// err == auth.ErrAuthenticationFailed for unknown email AND bad password
//
// # Security Notes
//
// A single process-wide symmetric secret signs every token; there is no key
// rotation and no per-user keying, so a leaked secret invalidates the whole
// token space. That is an accepted limitation of this deployment model.
//
// Authenticate returns the identical error for "no such user" and "wrong
// password" so the response body cannot be used for account enumeration. The
// not-found path skips the bcrypt comparison and therefore returns faster;
// evening out the timing would require hashing a dummy digest there.
//
// # Related Packages
//
//   - pkg/users: the credential store read by the resolver
//   - pkg/middleware: the per-request bearer-token filter
//   - pkg/api: registration and login HTTP handlers
package auth
