// Package identity implements the credential and account core of the
// payflow backend: registration, login with failed-attempt lockout, JWT
// issuance and validation, and account lifecycle management.
//
// Authentication flow:
//   - Authenticator orchestrates registration and login against a Users
//     repository, the bcrypt hasher, and a TokenService. Login failures are
//     tracked through the repository before the error propagates, so the
//     attempt counter survives the failed request.
//   - LockoutPolicy owns the unlocked/locked decision over the persisted
//     attempt counter. Attempts only ever reset on a successful login; a
//     locked account therefore stays locked until an operator resets the
//     counter out of band.
//
// Tokens:
//   - TokenService signs HS256 bearer tokens with a fixed lifetime and
//     validates them without consulting the store. A token issued before an
//     account is deactivated remains valid until it expires; callers that
//     need stronger guarantees must re-check the account state.
//
// Lifecycle:
//   - UserManager covers profile mutation, activation toggling, and the
//     aggregate queries the admin surface exposes. Activation calls are
//     idempotent.
package identity
