package repo

import (
	"errors"
	"fmt"
)

// ErrStorage is the single error kind for connection and query failures.
var ErrStorage = errors.New("storage failure")

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}
