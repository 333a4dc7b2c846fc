package sessionstore

import (
	"strings"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
)

// Key is the composite, alphanumeric-only storage key spec.md §4.1 requires:
// "customer_id + '_' + session_id + '_' + role".
type Key string

// BuildKey validates customerID, sessionID and role and builds the composite
// storage key. Each component must be non-empty and alphanumeric; any other
// character fails with apperr.BadRequest so a caller cannot smuggle a
// separator or path-traversal sequence into the storage layer.
func BuildKey(customerID, sessionID string, role Role) (Key, error) {
	const op = "sessionstore.BuildKey"
	if err := validateComponent(op, "customer_id", customerID); err != nil {
		return "", err
	}
	if err := validateComponent(op, "session_id", sessionID); err != nil {
		return "", err
	}
	if err := validateComponent(op, "role", string(role)); err != nil {
		return "", err
	}
	return Key(customerID + "_" + sessionID + "_" + string(role)), nil
}

func validateComponent(op, name, value string) error {
	if value == "" {
		return apperr.New(apperr.BadRequest, op, name+" must not be empty")
	}
	if strings.ContainsFunc(value, func(r rune) bool {
		return !isAlphanumeric(r)
	}) {
		return apperr.New(apperr.BadRequest, op, name+" must be alphanumeric")
	}
	return nil
}

func isAlphanumeric(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	default:
		return false
	}
}
