package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/codercomm/models"
)

// lookupError maps a failed single-row lookup to NotFound or a wrapped infrastructure error.
func lookupError(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource)
	}
	return fmt.Errorf("load %s: %w", resource, err)
}
