package pricing

import (
	"errors"
	"fmt"

	"github.com/jojuma-project/backend/internal/models"
)

// ErrNoActiveTable is returned by an export requested before any comparison was built.
var ErrNoActiveTable = errors.New("no comparison table has been generated yet")

// ErrInvalidReference is returned when a prior-period tariff cannot serve as a delta base.
var ErrInvalidReference = errors.New("invalid reference tariff")

// LookupError reports that a cost lookup did not find exactly one row.
// It signals an upstream data problem and is not retried.
type LookupError struct {
	Product models.Product
	Period  string // "current" or "prior"
	Matches int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("cost lookup for %s in %s period: expected exactly one row, found %d",
		e.Product, e.Period, e.Matches)
}

// ConfigurationError reports a map city without a configured center.
type ConfigurationError struct {
	City string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no map center configured for city %q", e.City)
}

// IsDataShapeError reports whether err should be shown to the user as a message
// rather than treated as a server failure.
func IsDataShapeError(err error) bool {
	var lookupErr *LookupError
	var configErr *ConfigurationError
	return errors.As(err, &lookupErr) || errors.As(err, &configErr) || errors.Is(err, ErrInvalidReference)
}
