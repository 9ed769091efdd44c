package core

import (
	"errors"

	"github.com/inovacc/addressbook/internal/model"
)

// Hint returns a short suggestion for the user for well-known failures, or
// the empty string.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrConnectivity):
		return "check the [database] section of the config file (addressbook config path)"
	case errors.Is(err, model.ErrNotFound):
		return "run 'addressbook list' to see contact IDs"
	case errors.Is(err, model.ErrConflict):
		return "reload the address book and try again"
	}

	return ""
}
