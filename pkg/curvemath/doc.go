// Package curvemath implements secp256k1 scalar and point arithmetic for the
// two-party protocols in pkg/protocol. See scalar.go and point.go.
package curvemath
