package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"gorm.io/gorm"
)

// notFound maps gorm's not-found error to the domain one
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// IsUniqueViolation reports whether err comes from a unique index. The
// string checks cover drivers that bypass gorm's error translation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// writeError wraps unique violations in shared.ErrAlreadyExists so
// services can tell conflicts from other failures
func writeError(err error) error {
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", shared.ErrAlreadyExists, err)
	}
	return err
}
