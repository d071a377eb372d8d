// Package jwt provides HS256 JSON Web Token generation, parsing, HTTP
// middleware, and context helpers.
//
// The Service type wraps signing and verification and accepts any
// JSON-serializable claims structure; StandardClaims mirrors the RFC 7519
// registered fields. Middleware validates a token extracted from the request
// (Bearer header or query parameter) and stores typed claims in the request
// context where GetClaims retrieves them.
package jwt
