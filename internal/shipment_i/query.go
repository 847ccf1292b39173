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
	"encoding/json"

	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"
	"github.com/JenniferSaul/secure-cargo-flow/utils"

	"github.com/pkg/errors"
)

// GetShipment documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetShipment(trackingId string) (data_model.Shipment, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))
	return manager.getExistingShipment(trackingId)
}

// GetEventCount documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetEventCount(trackingId string) (int, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return 0, err
	}
	return shipment.EventCount, nil
}

// GetCurrentStatus documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetCurrentStatus(trackingId string) (data_model.ShipmentStatus, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return "", err
	}
	status, _, err := manager.currentStatusAndLocation(shipment)
	return status, err
}

// GetCargoEvent documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetCargoEvent(trackingId string, index int) (data_model.CargoEvent, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))
	return manager.getEventChecked(trackingId, index)
}

// GetCargoEventPublic documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetCargoEventPublic(trackingId string, index int) (data_model.CargoEvent, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	event, err := manager.getEventChecked(trackingId, index)
	if err != nil {
		return data_model.CargoEvent{}, err
	}
	return event.PublicView(), nil
}

// GetShipmentDetails documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetShipmentDetails(trackingId string) (data_model.ShipmentDetails, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return data_model.ShipmentDetails{}, err
	}
	events, err := manager.loadEvents(shipment)
	if err != nil {
		return data_model.ShipmentDetails{}, err
	}
	return data_model.ShipmentDetails{
		Shipment:   shipment,
		Events:     events,
		EventCount: shipment.EventCount,
	}, nil
}

// GetShipmentHistory documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetShipmentHistory(trackingId string) (data_model.ShipmentHistory, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return data_model.ShipmentHistory{}, err
	}
	events, err := manager.loadEvents(shipment)
	if err != nil {
		return data_model.ShipmentHistory{}, err
	}

	history := data_model.ShipmentHistory{
		Locations:  make([]string, 0, len(events)),
		Statuses:   make([]data_model.ShipmentStatus, 0, len(events)),
		Timestamps: make([]int64, 0, len(events)),
	}
	for _, event := range events {
		history.Locations = append(history.Locations, event.Location)
		history.Statuses = append(history.Statuses, event.Status)
		history.Timestamps = append(history.Timestamps, event.Timestamp)
	}
	return history, nil
}

// GetEncryptedWeight documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetEncryptedWeight(trackingId string, index int) (data_model.CipherHandle, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	event, err := manager.getEventChecked(trackingId, index)
	if err != nil {
		return "", err
	}
	return event.EncryptedWeight, nil
}

// GetContentsLength documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetContentsLength(trackingId string, index int) (int, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	event, err := manager.getEventChecked(trackingId, index)
	if err != nil {
		return 0, err
	}
	return len(event.EncryptedContents), nil
}

// GetEncryptedContentsByte documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetEncryptedContentsByte(trackingId string, index int, byteIndex int) (data_model.CipherHandle, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	event, err := manager.getEventChecked(trackingId, index)
	if err != nil {
		return "", err
	}
	if byteIndex < 0 || byteIndex >= len(event.EncryptedContents) {
		custom_err := &custom_errors.IndexOutOfRangeError{Item: "contents byte", Index: byteIndex, Count: len(event.EncryptedContents)}
		logger.Errorf(custom_err.Error())
		return "", errors.WithStack(custom_err)
	}
	return event.EncryptedContents[byteIndex], nil
}

// GetTotalShipments documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetTotalShipments() (int64, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	totalBytes, err := manager.stub.GetState(global.TOTAL_SHIPMENTS_KEY)
	if err != nil {
		custom_err := &custom_errors.GetLedgerError{LedgerKey: global.TOTAL_SHIPMENTS_KEY, LedgerItem: "total shipments"}
		logger.Errorf("%v: %v", custom_err, err)
		return 0, errors.Wrap(err, custom_err.Error())
	}
	if totalBytes == nil {
		return 0, nil
	}

	var total int64
	if err := json.Unmarshal(totalBytes, &total); err != nil {
		custom_err := &custom_errors.UnmarshalError{Type: "total shipments"}
		logger.Errorf("%v: %v", custom_err, err)
		return 0, errors.Wrap(err, custom_err.Error())
	}
	return total, nil
}

// getEventChecked bounds-checks the index against the shipment's event count
// before reading the event record.
func (manager *shipmentManagerImpl) getEventChecked(trackingId string, index int) (data_model.CargoEvent, error) {
	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return data_model.CargoEvent{}, err
	}
	if index < 0 || index >= shipment.EventCount {
		custom_err := &custom_errors.IndexOutOfRangeError{Item: "event", Index: index, Count: shipment.EventCount}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}
	return manager.getEvent(trackingId, index)
}

// loadEvents reads every event of a shipment in append order.
func (manager *shipmentManagerImpl) loadEvents(shipment data_model.Shipment) ([]data_model.CargoEvent, error) {
	events := make([]data_model.CargoEvent, 0, shipment.EventCount)
	for index := 0; index < shipment.EventCount; index++ {
		event, err := manager.getEvent(shipment.TrackingId, index)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
