/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package validation

import (
	"testing"

	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/test_utils"

	"github.com/pkg/errors"
)

func TestValidateTrackingId(t *testing.T) {
	test_utils.AssertTrue(t, ValidateTrackingId("CARGO-001", 6), "expected 9-char id to pass")
	test_utils.AssertTrue(t, ValidateTrackingId("ABCDEF", 6), "expected exact-length id to pass")
	test_utils.AssertFalse(t, ValidateTrackingId("ABC", 6), "expected 3-char id to fail")
	test_utils.AssertFalse(t, ValidateTrackingId("", 6), "expected empty id to fail")

	// zero minLength falls back to the default of 6
	test_utils.AssertFalse(t, ValidateTrackingId("ABCDE", 0), "expected 5-char id to fail default minimum")
}

func TestCheckTrackingId(t *testing.T) {
	err := CheckTrackingId("ABC", 6)
	test_utils.AssertFalse(t, err == nil, "expected error for short id")
	_, ok := errors.Cause(err).(*custom_errors.InvalidTrackingIdError)
	test_utils.AssertTrue(t, ok, "expected InvalidTrackingIdError")

	test_utils.AssertNilError(t, CheckTrackingId("CARGO-001", 6), "expected valid id to pass")
}

func TestCheckNonEmpty(t *testing.T) {
	test_utils.AssertNilError(t, CheckNonEmpty("location", "Shanghai"), "expected non-empty field to pass")

	err := CheckNonEmpty("location", "")
	test_utils.AssertFalse(t, err == nil, "expected error for empty field")
	custom_err, ok := errors.Cause(err).(*custom_errors.EmptyFieldError)
	test_utils.AssertTrue(t, ok, "expected EmptyFieldError")
	test_utils.AssertTrue(t, custom_err.Field == "location", "expected error to name the field")
}

func TestCheckDeliveryWindow(t *testing.T) {
	now := int64(1700000000)
	day := int64(24 * 3600)

	test_utils.AssertNilError(t, CheckDeliveryWindow(now, now+7*day), "expected now+7d to pass")
	test_utils.AssertNilError(t, CheckDeliveryWindow(now, now+365*day), "expected exactly one year to pass")

	err := CheckDeliveryWindow(now, now)
	test_utils.AssertFalse(t, err == nil, "expected error for delivery at creation time")
	_, ok := errors.Cause(err).(*custom_errors.InvalidDeliveryWindowError)
	test_utils.AssertTrue(t, ok, "expected InvalidDeliveryWindowError for past delivery")

	err = CheckDeliveryWindow(now, now-day)
	test_utils.AssertFalse(t, err == nil, "expected error for delivery before creation")

	err = CheckDeliveryWindow(now, now+400*day)
	test_utils.AssertFalse(t, err == nil, "expected error for delivery past one year")
	_, ok = errors.Cause(err).(*custom_errors.InvalidDeliveryWindowError)
	test_utils.AssertTrue(t, ok, "expected InvalidDeliveryWindowError for far delivery")
}
