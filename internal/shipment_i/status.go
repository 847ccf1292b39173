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
	"fmt"

	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"
	"github.com/JenniferSaul/secure-cargo-flow/shipment/shipment_manager"
	"github.com/JenniferSaul/secure-cargo-flow/utils"

	"github.com/pkg/errors"
)

// IsValidTransition returns true if to is the stage immediately after from.
// Same-status and invalid inputs return false; the no-op case gets its own
// error type in UpdateStatus so callers can tell it apart.
func IsValidTransition(from data_model.ShipmentStatus, to data_model.ShipmentStatus) bool {
	fromRank := from.Rank()
	toRank := to.Rank()
	if fromRank < 0 || toRank < 0 {
		return false
	}
	return toRank == fromRank+1
}

// UpdateStatus documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) UpdateStatus(trackingId string, newStatus data_model.ShipmentStatus) (data_model.CargoEvent, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return data_model.CargoEvent{}, err
	}
	if err := manager.checkCreator(shipment); err != nil {
		return data_model.CargoEvent{}, err
	}
	if !newStatus.IsValid() {
		custom_err := &custom_errors.InvalidStatusError{Value: string(newStatus)}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}

	currentStatus, lastLocation, err := manager.currentStatusAndLocation(shipment)
	if err != nil {
		return data_model.CargoEvent{}, err
	}
	if newStatus == currentStatus {
		custom_err := &custom_errors.StatusNoOpError{Status: string(currentStatus)}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}
	if !IsValidTransition(currentStatus, newStatus) {
		custom_err := &custom_errors.InvalidTransitionError{From: string(currentStatus), To: string(newStatus)}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}

	now, err := utils.GetTxTimestampInSeconds(manager.stub)
	if err != nil {
		custom_err := &custom_errors.GetTxTimestampError{}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.CargoEvent{}, errors.Wrap(err, custom_err.Error())
	}
	earliest := shipment.CreatedAt + manager.config.MinDwellSeconds
	if now < earliest {
		custom_err := &custom_errors.TooSoonError{RemainingSeconds: earliest - now}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}

	// A status change is recorded as a regular event so the event list stays
	// the single source of truth for the current status.
	draft := shipment_manager.EventDraft{
		Location:    lastLocation,
		Status:      newStatus,
		Description: fmt.Sprintf("Status updated to %v", newStatus),
	}
	event, err := manager.appendEvent(&shipment, draft)
	if err != nil {
		return data_model.CargoEvent{}, err
	}

	notification := data_model.StatusUpdatedNotification{
		TrackingId: trackingId,
		EventId:    event.EventId,
		Caller:     manager.caller.ID,
		OldStatus:  currentStatus,
		NewStatus:  newStatus,
	}
	if err := manager.emit(global.STATUS_UPDATED_EVENT, notification); err != nil {
		return data_model.CargoEvent{}, err
	}

	logger.Infof("Shipment \"%v\" status %v -> %v", trackingId, currentStatus, newStatus)
	return event, nil
}

// currentStatusAndLocation derives the shipment's current status and last
// known location from the most recent event. An empty event list means the
// shipment is still in its initial stage at its origin.
func (manager *shipmentManagerImpl) currentStatusAndLocation(shipment data_model.Shipment) (data_model.ShipmentStatus, string, error) {
	if shipment.EventCount == 0 {
		return data_model.StatusCreated, shipment.Origin, nil
	}
	lastEvent, err := manager.getEvent(shipment.TrackingId, shipment.EventCount-1)
	if err != nil {
		return "", "", err
	}
	return lastEvent.Status, lastEvent.Location, nil
}
