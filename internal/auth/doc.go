// Package auth implements the identity subsystem: local account storage with
// argon2id password hashing, bearer token issuance and verification, and the
// fiber middleware gating authenticated routes.
//
// The rest of the service treats a bearer credential as opaque: middleware
// verifies it and hands the stable user id to the coordinators via
// fiber.Locals. A missing or invalid credential always yields 401, never a
// silent anonymous fallback.
package auth
