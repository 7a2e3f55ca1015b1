package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrEmptySlice  = errors.New("slice cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateContractor ensures a contractor id is present.
func validateContractor(contractorID string) error {
	if strings.TrimSpace(contractorID) == "" {
		return common.ErrMissingContractor
	}
	return nil
}

// validateSession ensures a session can be addressed by its key.
func validateSession(sess model.Session) error {
	if strings.TrimSpace(sess.Date) == "" {
		return fmt.Errorf("%w: missing date", common.ErrInvalidSession)
	}
	if _, ok := model.ParseDate(sess.Date); !ok {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", common.ErrInvalidSession, sess.Date)
	}
	if strings.TrimSpace(sess.StationName) == "" {
		return fmt.Errorf("%w: missing station name", common.ErrInvalidSession)
	}
	return nil
}

// validateKey ensures both parts of a session key are present.
func validateKey(key model.SessionKey) error {
	if key.Date == "" || key.Station == "" {
		return fmt.Errorf("%w: incomplete key %q", common.ErrInvalidSession, key.String())
	}
	return nil
}
