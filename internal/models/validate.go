package models

import (
	"regexp"
	"strconv"
)

// quantityPattern accepts an optional integer/decimal number. The empty
// string passes so a driver can clear a field while editing; finalize
// validation rejects it separately.
var quantityPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// ValidQuantityInput reports whether the value is acceptable as an in-progress
// delivered-quantity entry.
func ValidQuantityInput(value string) bool {
	return quantityPattern.MatchString(value)
}

// ValidationError describes why a record cannot be finalized. The message is
// shown to the driver as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateForFinalize checks the record against the finalize rules: a receiver
// name must be present, every delivered quantity must be numeric, and no
// delivered quantity may exceed the requested one. The photo requirement is
// checked by the caller, which owns the attachment count.
func (r *DeliveryRecord) ValidateForFinalize() error {
	if r.ReceivedBy == "" {
		return &ValidationError{
			Field:   "quien_recibe",
			Message: "the name of the person receiving the products is required",
		}
	}

	for _, p := range r.Products {
		delivered, err := strconv.ParseFloat(p.Delivered, 64)
		if err != nil {
			return &ValidationError{
				Field:   "entregado",
				Message: "one or more delivered quantities are malformed; only numbers and decimals are allowed",
			}
		}

		requested, err := strconv.ParseFloat(p.Requested, 64)
		if err != nil {
			// Reference data from the server; treat unparseable values as
			// no limit rather than blocking the driver.
			continue
		}

		if delivered > requested {
			return &ValidationError{
				Field:   "entregado",
				Message: "a delivered quantity is greater than the requested quantity",
			}
		}
	}

	return nil
}
