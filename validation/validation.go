/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package validation contains the pure, stateless checks that gate every
// state mutation: tracking identifier shape, field non-emptiness, and the
// delivery window. No ledger access, no side effects.
package validation

import (
	"fmt"

	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"

	"github.com/pkg/errors"
)

// ValidateTrackingId returns true if the identifier meets the minimum length.
// No other structural constraint is imposed on the ledger; character-set
// restrictions belong to client-side convenience layers.
func ValidateTrackingId(trackingId string, minLength int) bool {
	if minLength <= 0 {
		minLength = global.DEFAULT_MIN_TRACKING_ID_LENGTH
	}
	return len(trackingId) >= minLength
}

// ValidateNonEmpty returns true if the field has at least one character.
func ValidateNonEmpty(field string) bool {
	return len(field) > 0
}

// CheckTrackingId returns an InvalidTrackingIdError if the identifier fails validation.
func CheckTrackingId(trackingId string, minLength int) error {
	if minLength <= 0 {
		minLength = global.DEFAULT_MIN_TRACKING_ID_LENGTH
	}
	if !ValidateTrackingId(trackingId, minLength) {
		custom_err := &custom_errors.InvalidTrackingIdError{TrackingId: trackingId, MinLength: minLength}
		return errors.WithStack(custom_err)
	}
	return nil
}

// CheckNonEmpty returns an EmptyFieldError naming the field if it is empty.
func CheckNonEmpty(fieldName string, value string) error {
	if !ValidateNonEmpty(value) {
		custom_err := &custom_errors.EmptyFieldError{Field: fieldName}
		return errors.WithStack(custom_err)
	}
	return nil
}

// CheckDeliveryWindow returns an InvalidDeliveryWindowError unless
// now < estimatedDelivery <= now + 1 year.
func CheckDeliveryWindow(now int64, estimatedDelivery int64) error {
	if estimatedDelivery <= now {
		custom_err := &custom_errors.InvalidDeliveryWindowError{Reason: "must be in the future"}
		return errors.WithStack(custom_err)
	}
	if estimatedDelivery > now+global.MAX_DELIVERY_WINDOW_SECONDS {
		custom_err := &custom_errors.InvalidDeliveryWindowError{
			Reason: fmt.Sprintf("more than 1 year past creation (%v > %v)", estimatedDelivery, now+global.MAX_DELIVERY_WINDOW_SECONDS)}
		return errors.WithStack(custom_err)
	}
	return nil
}
