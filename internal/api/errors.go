package api

import (
	"errors"
	"net/http"

	werrs "github.com/warbler-social/warbler/internal/errors"
	"github.com/warbler-social/warbler/internal/warbler"
)

// coerce maps domain sentinels onto transport errors. Anything unrecognized
// passes through and surfaces as a 500.
func coerce(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, warbler.ErrNotFound):
		return werrs.E(err, http.StatusNotFound)
	case errors.Is(err, warbler.ErrInvalidCursor):
		return werrs.E(err, http.StatusBadRequest)
	case errors.Is(err, warbler.ErrConflict):
		return werrs.E(err, http.StatusConflict)
	}

	return err
}
