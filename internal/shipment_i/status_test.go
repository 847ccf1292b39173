/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package shipment_i

import (
	"testing"

	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"
	"github.com/JenniferSaul/secure-cargo-flow/test_utils"

	"github.com/pkg/errors"
)

func TestIsValidTransition(t *testing.T) {
	test_utils.AssertTrue(t, IsValidTransition(data_model.StatusCreated, data_model.StatusInTransit), "expected CREATED -> IN_TRANSIT")
	test_utils.AssertTrue(t, IsValidTransition(data_model.StatusInTransit, data_model.StatusCustomsClearance), "expected IN_TRANSIT -> CUSTOMS_CLEARANCE")
	test_utils.AssertTrue(t, IsValidTransition(data_model.StatusCustomsClearance, data_model.StatusArrived), "expected CUSTOMS_CLEARANCE -> ARRIVED")
	test_utils.AssertTrue(t, IsValidTransition(data_model.StatusArrived, data_model.StatusDelivered), "expected ARRIVED -> DELIVERED")

	test_utils.AssertFalse(t, IsValidTransition(data_model.StatusCreated, data_model.StatusArrived), "expected no skipping")
	test_utils.AssertFalse(t, IsValidTransition(data_model.StatusArrived, data_model.StatusInTransit), "expected no backward move")
	test_utils.AssertFalse(t, IsValidTransition(data_model.StatusCreated, data_model.StatusCreated), "expected no same-status transition")
	test_utils.AssertFalse(t, IsValidTransition(data_model.StatusDelivered, data_model.StatusCreated), "expected the terminal stage to have no successor")
	test_utils.AssertFalse(t, IsValidTransition("BOGUS", data_model.StatusInTransit), "expected invalid input to fail")
}

func TestUpdateStatus(t *testing.T) {
	env := setup(t)
	manager := env.manager(t, "carrier1")
	createTestShipment(t, env, manager, "CARGO-001")

	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS

	event, err := manager.UpdateStatus("CARGO-001", data_model.StatusInTransit)
	test_utils.AssertNilError(t, err, "expected the first transition to succeed")
	test_utils.AssertStringsEqual(t, string(data_model.StatusInTransit), string(event.Status), "expected the event to carry the new status")
	test_utils.AssertStringsEqual(t, "Status updated to IN_TRANSIT", event.Description, "expected a synthesized description")
	test_utils.AssertStringsEqual(t, "Shanghai", event.Location, "expected the origin as location before any event")

	status, err := manager.GetCurrentStatus("CARGO-001")
	test_utils.AssertNilError(t, err, "expected status to be readable")
	test_utils.AssertStringsEqual(t, string(data_model.StatusInTransit), string(status), "expected the current status to advance")

	lastEvent := env.stub.LastEvent()
	test_utils.AssertStringsEqual(t, global.STATUS_UPDATED_EVENT, lastEvent.Name, "expected ShipmentStatusUpdated notification")
}

func TestUpdateStatusFullLifecycle(t *testing.T) {
	env := setup(t)
	manager := env.manager(t, "carrier1")
	createTestShipment(t, env, manager, "CARGO-001")

	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS

	stages := []data_model.ShipmentStatus{
		data_model.StatusInTransit,
		data_model.StatusCustomsClearance,
		data_model.StatusArrived,
		data_model.StatusDelivered,
	}
	for _, stage := range stages {
		_, err := manager.UpdateStatus("CARGO-001", stage)
		test_utils.AssertNilError(t, err, "expected the adjacent transition to succeed")
	}

	status, err := manager.GetCurrentStatus("CARGO-001")
	test_utils.AssertNilError(t, err, "expected status to be readable")
	test_utils.AssertStringsEqual(t, string(data_model.StatusDelivered), string(status), "expected the terminal stage")

	count, err := manager.GetEventCount("CARGO-001")
	test_utils.AssertNilError(t, err, "expected event count to be readable")
	test_utils.AssertIntsEqual(t, 4, count, "expected one event per transition")
}

func TestUpdateStatusRejectsSkipAndBackward(t *testing.T) {
	env := setup(t)
	manager := env.manager(t, "carrier1")
	createTestShipment(t, env, manager, "CARGO-001")

	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS

	_, err := manager.UpdateStatus("CARGO-001", data_model.StatusArrived)
	test_utils.AssertNotNilError(t, err, "expected a skipping transition to fail")
	custom_err, ok := errors.Cause(err).(*custom_errors.InvalidTransitionError)
	test_utils.AssertTrue(t, ok, "expected InvalidTransitionError")
	test_utils.AssertStringsEqual(t, string(data_model.StatusCreated), custom_err.From, "expected the error to carry the current status")

	_, err = manager.UpdateStatus("CARGO-001", data_model.StatusInTransit)
	test_utils.AssertNilError(t, err, "expected the adjacent transition to succeed")

	_, err = manager.UpdateStatus("CARGO-001", data_model.StatusCreated)
	test_utils.AssertNotNilError(t, err, "expected a backward transition to fail")
	_, ok = errors.Cause(err).(*custom_errors.InvalidTransitionError)
	test_utils.AssertTrue(t, ok, "expected InvalidTransitionError")

	count, err := manager.GetEventCount("CARGO-001")
	test_utils.AssertNilError(t, err, "expected event count to be readable")
	test_utils.AssertIntsEqual(t, 1, count, "expected failed transitions to leave no event")
}

func TestUpdateStatusNoOp(t *testing.T) {
	env := setup(t)
	manager := env.manager(t, "carrier1")
	createTestShipment(t, env, manager, "CARGO-001")

	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS

	_, err := manager.UpdateStatus("CARGO-001", data_model.StatusCreated)
	test_utils.AssertNotNilError(t, err, "expected a same-status update to fail")
	custom_err, ok := errors.Cause(err).(*custom_errors.StatusNoOpError)
	test_utils.AssertTrue(t, ok, "expected StatusNoOpError")
	test_utils.AssertStringsEqual(t, string(data_model.StatusCreated), custom_err.Status, "expected the error to carry the status")
}

func TestUpdateStatusTooSoon(t *testing.T) {
	env := setup(t)
	manager := env.manager(t, "carrier1")
	createTestShipment(t, env, manager, "CARGO-001")

	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS - 60

	_, err := manager.UpdateStatus("CARGO-001", data_model.StatusInTransit)
	test_utils.AssertNotNilError(t, err, "expected a transition before the dwell time to fail")
	custom_err, ok := errors.Cause(err).(*custom_errors.TooSoonError)
	test_utils.AssertTrue(t, ok, "expected TooSoonError")
	test_utils.AssertTrue(t, custom_err.RemainingSeconds == 60, "expected the error to carry the remaining seconds")

	// exactly at the boundary the transition is accepted
	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS
	_, err = manager.UpdateStatus("CARGO-001", data_model.StatusInTransit)
	test_utils.AssertNilError(t, err, "expected the transition at the dwell boundary to succeed")
}

func TestUpdateStatusForbidden(t *testing.T) {
	env := setup(t)
	creator := env.manager(t, "carrier1")
	createTestShipment(t, env, creator, "CARGO-001")

	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS

	intruder := env.manager(t, "carrier2")
	_, err := intruder.UpdateStatus("CARGO-001", data_model.StatusInTransit)
	test_utils.AssertNotNilError(t, err, "expected a non-creator update to fail")
	_, ok := errors.Cause(err).(*custom_errors.ForbiddenError)
	test_utils.AssertTrue(t, ok, "expected ForbiddenError")
}

func TestUpdateStatusCarriesLastLocation(t *testing.T) {
	env := setup(t)
	manager := env.manager(t, "carrier1")
	createTestShipment(t, env, manager, "CARGO-001")

	draft := shipmentDraft("Singapore", "Transshipment stop")
	_, err := manager.AddCargoEvent("CARGO-001", draft)
	test_utils.AssertNilError(t, err, "expected append to succeed")

	env.stub.Timestamp = baseTime + global.DEFAULT_MIN_DWELL_SECONDS
	event, err := manager.UpdateStatus("CARGO-001", data_model.StatusInTransit)
	test_utils.AssertNilError(t, err, "expected the transition to succeed")
	test_utils.AssertStringsEqual(t, "Singapore", event.Location, "expected the last known location")
}
