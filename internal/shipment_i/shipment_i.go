/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package shipment_i implements the shipment record store: creation, the
// append-only event list, creator reassignment, and all read projections.
// Every write is validate-first; nothing is put to the ledger until all
// checks of the operation have passed.
package shipment_i

import (
	"encoding/json"

	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/confidential_i"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"
	"github.com/JenniferSaul/secure-cargo-flow/shipment/shipment_manager"
	"github.com/JenniferSaul/secure-cargo-flow/utils"
	"github.com/JenniferSaul/secure-cargo-flow/validation"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/pkg/errors"
)

var logger = utils.NewLogger("shipment_i")

// shipmentManagerImpl is the default implementation of the ShipmentManager interface.
type shipmentManagerImpl struct {
	stub    shim.ChaincodeStubInterface
	caller  data_model.Caller
	service confidential_i.Service
	config  data_model.Config
}

// GetShipmentManager constructs and returns a shipmentManagerImpl instance
// bound to one transaction, one caller, and the stored configuration record.
func GetShipmentManager(stub shim.ChaincodeStubInterface, caller data_model.Caller, service confidential_i.Service) (shipment_manager.ShipmentManager, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	config, err := GetConfig(stub)
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		return nil, errors.Wrap(err, "Failed to load config")
	}
	return &shipmentManagerImpl{stub: stub, caller: caller, service: service, config: config}, nil
}

// GetStub documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetStub() shim.ChaincodeStubInterface {
	return manager.stub
}

// GetCaller documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) GetCaller() data_model.Caller {
	return manager.caller
}

// CreateShipment documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) CreateShipment(trackingId string, origin string, destination string, estimatedDelivery int64) (data_model.Shipment, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	if err := validation.CheckTrackingId(trackingId, manager.config.MinTrackingIdLength); err != nil {
		logger.Errorf("Invalid tracking ID \"%v\": %v", trackingId, err)
		return data_model.Shipment{}, err
	}
	if err := validation.CheckNonEmpty("origin", origin); err != nil {
		logger.Errorf("%v", err)
		return data_model.Shipment{}, err
	}
	if err := validation.CheckNonEmpty("destination", destination); err != nil {
		logger.Errorf("%v", err)
		return data_model.Shipment{}, err
	}

	now, err := utils.GetTxTimestampInSeconds(manager.stub)
	if err != nil {
		custom_err := &custom_errors.GetTxTimestampError{}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.Shipment{}, errors.Wrap(err, custom_err.Error())
	}
	if err := validation.CheckDeliveryWindow(now, estimatedDelivery); err != nil {
		logger.Errorf("Invalid delivery window for \"%v\": %v", trackingId, err)
		return data_model.Shipment{}, err
	}

	existing, err := manager.getShipment(trackingId)
	if err != nil {
		return data_model.Shipment{}, err
	}
	if existing.Exists {
		custom_err := &custom_errors.ShipmentAlreadyExistsError{TrackingId: trackingId}
		logger.Errorf(custom_err.Error())
		return data_model.Shipment{}, errors.WithStack(custom_err)
	}

	shipment := data_model.Shipment{
		TrackingId:        trackingId,
		Origin:            origin,
		Destination:       destination,
		CreatedAt:         now,
		EstimatedDelivery: estimatedDelivery,
		Creator:           manager.caller.ID,
		EventCount:        0,
		Exists:            true,
	}
	if err := manager.putShipment(shipment); err != nil {
		return data_model.Shipment{}, err
	}

	total, err := manager.GetTotalShipments()
	if err != nil {
		return data_model.Shipment{}, err
	}
	if err := manager.putTotalShipments(total + 1); err != nil {
		return data_model.Shipment{}, err
	}

	notification := data_model.ShipmentCreatedNotification{
		TrackingId:        trackingId,
		Creator:           shipment.Creator,
		Origin:            origin,
		Destination:       destination,
		EstimatedDelivery: estimatedDelivery,
	}
	if err := manager.emit(global.SHIPMENT_CREATED_EVENT, notification); err != nil {
		return data_model.Shipment{}, err
	}

	logger.Infof("Created shipment \"%v\" for creator \"%v\"", trackingId, shipment.Creator)
	return shipment, nil
}

// AddCargoEvent documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) AddCargoEvent(trackingId string, draft shipment_manager.EventDraft) (data_model.CargoEvent, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return data_model.CargoEvent{}, err
	}
	if err := manager.checkCreator(shipment); err != nil {
		return data_model.CargoEvent{}, err
	}

	event, err := manager.appendEvent(&shipment, draft)
	if err != nil {
		return data_model.CargoEvent{}, err
	}

	notification := data_model.CargoEventAddedNotification{
		TrackingId: trackingId,
		EventId:    event.EventId,
		Caller:     manager.caller.ID,
		Location:   event.Location,
		Status:     event.Status,
	}
	if err := manager.emit(global.CARGO_EVENT_ADDED_EVENT, notification); err != nil {
		return data_model.CargoEvent{}, err
	}

	logger.Infof("Appended event %v to shipment \"%v\"", event.EventId, trackingId)
	return event, nil
}

// ReassignCreator documentation can be found in the interface definition of ShipmentManager.
func (manager *shipmentManagerImpl) ReassignCreator(trackingId string, newOwner string) error {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	shipment, err := manager.getExistingShipment(trackingId)
	if err != nil {
		return err
	}
	if err := manager.checkCreator(shipment); err != nil {
		return err
	}
	if utils.IsStringEmpty(newOwner) {
		custom_err := &custom_errors.InvalidArgumentError{Argument: "newOwner", Reason: "must not be empty"}
		logger.Errorf(custom_err.Error())
		return errors.WithStack(custom_err)
	}
	if newOwner == shipment.Creator {
		custom_err := &custom_errors.InvalidArgumentError{Argument: "newOwner", Reason: "already the creator"}
		logger.Errorf(custom_err.Error())
		return errors.WithStack(custom_err)
	}

	oldCreator := shipment.Creator
	shipment.Creator = newOwner
	if err := manager.putShipment(shipment); err != nil {
		return err
	}

	notification := data_model.CreatorReassignedNotification{
		TrackingId: trackingId,
		OldCreator: oldCreator,
		NewCreator: newOwner,
	}
	if err := manager.emit(global.CREATOR_REASSIGNED_EVENT, notification); err != nil {
		return err
	}

	logger.Infof("Reassigned shipment \"%v\" from \"%v\" to \"%v\"", trackingId, oldCreator, newOwner)
	return nil
}

/*
******************************************************************************************************
Append internals
******************************************************************************************************
*/

// appendEvent validates the draft, resolves its confidential payload, and
// stores the event plus the bumped shipment count. It emits no notification;
// each exported write operation emits its own.
func (manager *shipmentManagerImpl) appendEvent(shipment *data_model.Shipment, draft shipment_manager.EventDraft) (data_model.CargoEvent, error) {
	if err := validation.CheckNonEmpty("location", draft.Location); err != nil {
		logger.Errorf("%v", err)
		return data_model.CargoEvent{}, err
	}
	if err := validation.CheckNonEmpty("description", draft.Description); err != nil {
		logger.Errorf("%v", err)
		return data_model.CargoEvent{}, err
	}
	if !draft.Status.IsValid() {
		custom_err := &custom_errors.InvalidStatusError{Value: string(draft.Status)}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}

	// An appended event may restate the current status or advance it one
	// stage; lifecycle order is enforced on every path that records a status.
	currentStatus, _, err := manager.currentStatusAndLocation(*shipment)
	if err != nil {
		return data_model.CargoEvent{}, err
	}
	if draft.Status != currentStatus && !IsValidTransition(currentStatus, draft.Status) {
		custom_err := &custom_errors.InvalidTransitionError{From: string(currentStatus), To: string(draft.Status)}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}
	if draft.HasAnomaly {
		if err := validation.CheckNonEmpty("anomalyDescription", draft.AnomalyDescription); err != nil {
			logger.Errorf("%v", err)
			return data_model.CargoEvent{}, err
		}
	}

	now, err := utils.GetTxTimestampInSeconds(manager.stub)
	if err != nil {
		custom_err := &custom_errors.GetTxTimestampError{}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.CargoEvent{}, errors.Wrap(err, custom_err.Error())
	}

	importer := confidential_i.GetImporter(manager.service, shipment.TrackingId, manager.caller)

	var weight data_model.CipherHandle
	if draft.Confidential.HasWeight() {
		weight, err = importer.ImportWeight(draft.Confidential.WeightCiphertext, draft.Confidential.WeightProof)
		if err != nil {
			return data_model.CargoEvent{}, err
		}
	} else if shipment.EventCount > 0 {
		// No fresh ciphertext: carry the first event's handle forward by
		// reference. Never fabricate a handle, never re-import.
		firstEvent, err := manager.getEvent(shipment.TrackingId, 0)
		if err != nil {
			return data_model.CargoEvent{}, err
		}
		weight = importer.CarryForwardWeight([]data_model.CargoEvent{firstEvent})
	}

	var contents []data_model.CipherHandle
	if draft.Confidential.HasContents() {
		contents, err = importer.ImportContents(draft.Confidential.ContentsCiphertexts, draft.Confidential.ContentsProof, manager.config.MaxContentsLength)
		if err != nil {
			return data_model.CargoEvent{}, err
		}
	}

	event := data_model.CargoEvent{
		EventId:            shipment.EventCount,
		Timestamp:          now,
		Location:           draft.Location,
		Status:             draft.Status,
		Description:        draft.Description,
		EncryptedWeight:    weight,
		EncryptedContents:  contents,
		HasAnomaly:         draft.HasAnomaly,
		AnomalyDescription: draft.AnomalyDescription,
	}
	if err := manager.putEvent(shipment.TrackingId, event); err != nil {
		return data_model.CargoEvent{}, err
	}

	shipment.EventCount++
	if err := manager.putShipment(*shipment); err != nil {
		return data_model.CargoEvent{}, err
	}
	return event, nil
}

// checkCreator returns a ForbiddenError unless the manager's caller is the
// shipment's current creator.
func (manager *shipmentManagerImpl) checkCreator(shipment data_model.Shipment) error {
	if manager.caller.ID != shipment.Creator {
		custom_err := &custom_errors.ForbiddenError{CallerId: manager.caller.ID, TrackingId: shipment.TrackingId}
		logger.Errorf(custom_err.Error())
		return errors.WithStack(custom_err)
	}
	return nil
}

/*
******************************************************************************************************
Ledger access
******************************************************************************************************
*/

// getShipment reads a shipment record, returning a zero-value shipment with
// Exists == false when the key is absent.
func (manager *shipmentManagerImpl) getShipment(trackingId string) (data_model.Shipment, error) {
	shipmentKey, err := manager.stub.CreateCompositeKey(global.SHIPMENT_NAMESPACE, []string{trackingId})
	if err != nil {
		custom_err := &custom_errors.CreateCompositeKeyError{Type: global.SHIPMENT_NAMESPACE}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.Shipment{}, errors.Wrap(err, custom_err.Error())
	}

	shipmentBytes, err := manager.stub.GetState(shipmentKey)
	if err != nil {
		custom_err := &custom_errors.GetLedgerError{LedgerKey: shipmentKey, LedgerItem: "shipment"}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.Shipment{}, errors.Wrap(err, custom_err.Error())
	}
	if shipmentBytes == nil {
		return data_model.Shipment{}, nil
	}

	shipment := data_model.Shipment{}
	if err := json.Unmarshal(shipmentBytes, &shipment); err != nil {
		custom_err := &custom_errors.UnmarshalError{Type: "shipment"}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.Shipment{}, errors.Wrap(err, custom_err.Error())
	}
	return shipment, nil
}

// getExistingShipment reads a shipment record, returning a
// ShipmentNotFoundError when the key is absent.
func (manager *shipmentManagerImpl) getExistingShipment(trackingId string) (data_model.Shipment, error) {
	shipment, err := manager.getShipment(trackingId)
	if err != nil {
		return data_model.Shipment{}, err
	}
	if !shipment.Exists {
		custom_err := &custom_errors.ShipmentNotFoundError{TrackingId: trackingId}
		logger.Errorf(custom_err.Error())
		return data_model.Shipment{}, errors.WithStack(custom_err)
	}
	return shipment, nil
}

func (manager *shipmentManagerImpl) putShipment(shipment data_model.Shipment) error {
	shipmentKey, err := manager.stub.CreateCompositeKey(global.SHIPMENT_NAMESPACE, []string{shipment.TrackingId})
	if err != nil {
		custom_err := &custom_errors.CreateCompositeKeyError{Type: global.SHIPMENT_NAMESPACE}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}

	shipmentBytes, err := json.Marshal(&shipment)
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: "shipment"}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}

	if err := manager.stub.PutState(shipmentKey, shipmentBytes); err != nil {
		custom_err := &custom_errors.PutLedgerError{LedgerKey: shipmentKey}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}
	return nil
}

// getEvent reads one event by index; absence past a passing bounds check
// indicates store corruption and surfaces as a GetLedgerError.
func (manager *shipmentManagerImpl) getEvent(trackingId string, index int) (data_model.CargoEvent, error) {
	eventKey, err := manager.eventKey(trackingId, index)
	if err != nil {
		return data_model.CargoEvent{}, err
	}

	eventBytes, err := manager.stub.GetState(eventKey)
	if err != nil {
		custom_err := &custom_errors.GetLedgerError{LedgerKey: eventKey, LedgerItem: "cargo event"}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.CargoEvent{}, errors.Wrap(err, custom_err.Error())
	}
	if eventBytes == nil {
		custom_err := &custom_errors.GetLedgerError{LedgerKey: eventKey, LedgerItem: "cargo event"}
		logger.Errorf(custom_err.Error())
		return data_model.CargoEvent{}, errors.WithStack(custom_err)
	}

	event := data_model.CargoEvent{}
	if err := json.Unmarshal(eventBytes, &event); err != nil {
		custom_err := &custom_errors.UnmarshalError{Type: "cargo event"}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.CargoEvent{}, errors.Wrap(err, custom_err.Error())
	}
	return event, nil
}

func (manager *shipmentManagerImpl) putEvent(trackingId string, event data_model.CargoEvent) error {
	eventKey, err := manager.eventKey(trackingId, event.EventId)
	if err != nil {
		return err
	}

	eventBytes, err := json.Marshal(&event)
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: "cargo event"}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}

	if err := manager.stub.PutState(eventKey, eventBytes); err != nil {
		custom_err := &custom_errors.PutLedgerError{LedgerKey: eventKey}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}
	return nil
}

// eventKey builds the composite key of one event. The index component is
// zero-padded so range scans return events in append order.
func (manager *shipmentManagerImpl) eventKey(trackingId string, index int) (string, error) {
	eventKey, err := manager.stub.CreateCompositeKey(global.CARGO_EVENT_NAMESPACE,
		[]string{trackingId, utils.PadIndex(index, global.EVENT_INDEX_PAD_WIDTH)})
	if err != nil {
		custom_err := &custom_errors.CreateCompositeKeyError{Type: global.CARGO_EVENT_NAMESPACE}
		logger.Errorf("%v: %v", custom_err, err)
		return "", errors.Wrap(err, custom_err.Error())
	}
	return eventKey, nil
}

func (manager *shipmentManagerImpl) putTotalShipments(total int64) error {
	totalBytes, err := json.Marshal(total)
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: "total shipments"}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}
	if err := manager.stub.PutState(global.TOTAL_SHIPMENTS_KEY, totalBytes); err != nil {
		custom_err := &custom_errors.PutLedgerError{LedgerKey: global.TOTAL_SHIPMENTS_KEY}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}
	return nil
}

// emit marshals a notification payload and sets it as the transaction's
// chaincode event. Fabric keeps one event per transaction, so each write
// operation emits exactly once.
func (manager *shipmentManagerImpl) emit(name string, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: name + " notification"}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}
	if err := manager.stub.SetEvent(name, payloadBytes); err != nil {
		logger.Errorf("Failed to set %v event: %v", name, err)
		return errors.Wrap(err, "Failed to set "+name+" event")
	}
	return nil
}

/*
******************************************************************************************************
Configuration record
******************************************************************************************************
*/

// GetConfig reads the tracker configuration record, falling back to the
// defaults when no record has been stored.
func GetConfig(stub shim.ChaincodeStubInterface) (data_model.Config, error) {
	configBytes, err := stub.GetState(global.CONFIG_KEY)
	if err != nil {
		custom_err := &custom_errors.GetLedgerError{LedgerKey: global.CONFIG_KEY, LedgerItem: "config"}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.Config{}, errors.Wrap(err, custom_err.Error())
	}
	if configBytes == nil {
		return DefaultConfig(), nil
	}

	config := data_model.Config{}
	if err := json.Unmarshal(configBytes, &config); err != nil {
		custom_err := &custom_errors.UnmarshalError{Type: "config"}
		logger.Errorf("%v: %v", custom_err, err)
		return data_model.Config{}, errors.Wrap(err, custom_err.Error())
	}
	return config, nil
}

// PutConfig stores the tracker configuration record. Zero-valued fields are
// replaced with the defaults before the record is written.
func PutConfig(stub shim.ChaincodeStubInterface, config data_model.Config) error {
	defaults := DefaultConfig()
	if config.MinTrackingIdLength <= 0 {
		config.MinTrackingIdLength = defaults.MinTrackingIdLength
	}
	if config.MinDwellSeconds <= 0 {
		config.MinDwellSeconds = defaults.MinDwellSeconds
	}
	if config.MaxContentsLength <= 0 {
		config.MaxContentsLength = defaults.MaxContentsLength
	}

	configBytes, err := json.Marshal(&config)
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: "config"}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}
	if err := stub.PutState(global.CONFIG_KEY, configBytes); err != nil {
		custom_err := &custom_errors.PutLedgerError{LedgerKey: global.CONFIG_KEY}
		logger.Errorf("%v: %v", custom_err, err)
		return errors.Wrap(err, custom_err.Error())
	}
	return nil
}

// DefaultConfig returns the configuration used when Init stores no overrides.
func DefaultConfig() data_model.Config {
	return data_model.Config{
		MinTrackingIdLength: global.DEFAULT_MIN_TRACKING_ID_LENGTH,
		MinDwellSeconds:     global.DEFAULT_MIN_DWELL_SECONDS,
		MaxContentsLength:   global.DEFAULT_MAX_CONTENTS_LENGTH,
	}
}
