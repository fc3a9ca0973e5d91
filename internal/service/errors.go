package service

import (
	"errors"

	"ecommerce-api/internal/catalog"
	"ecommerce-api/internal/store"
)

// Service-level error categories. Handlers map these onto HTTP statuses:
// ErrNotFound → 404, ErrConflict → 409, ErrValidation → 400,
// ErrUnauthorized → 401, anything else → 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// translate folds storage-layer sentinels into the service categories so
// handlers never import the storage packages.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, catalog.ErrDuplicate):
		return errors.Join(ErrConflict, err)
	default:
		return err
	}
}
