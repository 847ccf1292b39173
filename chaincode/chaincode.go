/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package chaincode is the transaction entry point of the cargo tracker.
// It parses invocation arguments, resolves the caller identity and the
// confidential engine from the transient map, and dispatches to the
// shipment record store.
package chaincode

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/JenniferSaul/secure-cargo-flow/confidential"
	"github.com/JenniferSaul/secure-cargo-flow/confidential/softengine"
	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/shipment"
	"github.com/JenniferSaul/secure-cargo-flow/shipment/shipment_manager"
	"github.com/JenniferSaul/secure-cargo-flow/utils"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/pkg/errors"
)

var logger = utils.NewLogger("chaincode")

// Transient map keys. The caller identity and the engine key travel in the
// transient map so neither appears in the recorded transaction arguments.
const (
	callerTransientKey    = "id"
	engineKeyTransientKey = "engineKey"
)

// CargoTracker implements shim.Chaincode for the cargo-tracking record.
type CargoTracker struct{}

// Init stores the tracker configuration record. An optional single argument
// holds a JSON config; missing or zero-valued fields fall back to defaults.
func (t *CargoTracker) Init(stub shim.ChaincodeStubInterface) pb.Response {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	_, args := stub.GetFunctionAndParameters()

	config := shipment.DefaultConfig()
	if len(args) >= 1 && len(args[0]) > 0 {
		if err := json.Unmarshal([]byte(args[0]), &config); err != nil {
			custom_err := &custom_errors.UnmarshalError{Type: "config"}
			logger.Errorf("%v: %v", custom_err, err)
			return shim.Error(custom_err.Error())
		}
	}
	if err := shipment.PutConfig(stub, config); err != nil {
		return shim.Error(err.Error())
	}

	logger.Infof("Initialized cargo tracker with config %+v", config)
	return shim.Success(nil)
}

// Invoke dispatches a transaction to the named operation.
func (t *CargoTracker) Invoke(stub shim.ChaincodeStubInterface) pb.Response {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	function, args := stub.GetFunctionAndParameters()
	logger.Debugf("Invoke function %v with %v args", function, len(args))

	caller, err := getCaller(stub)
	if err != nil {
		return shim.Error(err.Error())
	}
	engine, err := getEngine(stub)
	if err != nil {
		return shim.Error(err.Error())
	}

	var service confidential.Service
	if engine != nil {
		service = engine
	}
	manager, err := shipment.GetShipmentManager(stub, caller, service)
	if err != nil {
		return shim.Error(err.Error())
	}

	switch function {
	case "createShipment":
		return t.createShipment(manager, args)
	case "addCargoEvent":
		return t.addCargoEvent(manager, engine, args)
	case "updateStatus":
		return t.updateStatus(manager, args)
	case "reassignCreator":
		return t.reassignCreator(manager, args)
	case "getShipment":
		return t.getShipment(manager, args)
	case "getEventCount":
		return t.getEventCount(manager, args)
	case "getCurrentStatus":
		return t.getCurrentStatus(manager, args)
	case "getCargoEvent":
		return t.getCargoEvent(manager, args)
	case "getCargoEventPublic":
		return t.getCargoEventPublic(manager, args)
	case "getShipmentDetails":
		return t.getShipmentDetails(manager, args)
	case "getShipmentHistory":
		return t.getShipmentHistory(manager, args)
	case "getEncryptedWeight":
		return t.getEncryptedWeight(manager, args)
	case "getContentsLength":
		return t.getContentsLength(manager, args)
	case "getEncryptedContentsByte":
		return t.getEncryptedContentsByte(manager, args)
	case "getTotalShipments":
		return t.getTotalShipments(manager, args)
	case "getConfig":
		return t.getConfig(stub, args)
	case "grantDecryptCapability":
		return t.grantDecryptCapability(manager, engine, args)
	case "hasDecryptCapability":
		return t.hasDecryptCapability(engine, args)
	case "decryptOnBehalfOf":
		return t.decryptOnBehalfOf(engine, args)
	default:
		custom_err := &custom_errors.InvalidArgumentError{Argument: "function", Reason: "unknown function " + function}
		logger.Errorf(custom_err.Error())
		return shim.Error(custom_err.Error())
	}
}

/*
******************************************************************************************************
Write operations
******************************************************************************************************
*/

func (t *CargoTracker) createShipment(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 4); err != nil {
		return shim.Error(err.Error())
	}
	estimatedDelivery, err := parseInt64Arg("estimatedDelivery", args[3])
	if err != nil {
		return shim.Error(err.Error())
	}

	createdShipment, err := manager.CreateShipment(args[0], args[1], args[2], estimatedDelivery)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("shipment", createdShipment)
}

func (t *CargoTracker) addCargoEvent(manager shipment_manager.ShipmentManager, engine *softengine.Engine, args []string) pb.Response {
	if err := checkArgCount(args, 2); err != nil {
		return shim.Error(err.Error())
	}
	draft := shipment_manager.EventDraft{}
	if err := json.Unmarshal([]byte(args[1]), &draft); err != nil {
		custom_err := &custom_errors.UnmarshalError{Type: "event draft"}
		logger.Errorf("%v: %v", custom_err, err)
		return shim.Error(custom_err.Error())
	}
	if (draft.Confidential.HasWeight() || draft.Confidential.HasContents()) && engine == nil {
		custom_err := &custom_errors.InvalidArgumentError{Argument: engineKeyTransientKey, Reason: "required for confidential payloads"}
		logger.Errorf(custom_err.Error())
		return shim.Error(custom_err.Error())
	}

	event, err := manager.AddCargoEvent(args[0], draft)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("cargo event", event)
}

func (t *CargoTracker) updateStatus(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 2); err != nil {
		return shim.Error(err.Error())
	}
	newStatus, err := data_model.ParseShipmentStatus(args[1])
	if err != nil {
		return shim.Error(err.Error())
	}

	event, err := manager.UpdateStatus(args[0], newStatus)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("cargo event", event)
}

func (t *CargoTracker) reassignCreator(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 2); err != nil {
		return shim.Error(err.Error())
	}
	if err := manager.ReassignCreator(args[0], args[1]); err != nil {
		return shim.Error(err.Error())
	}
	return shim.Success(nil)
}

/*
******************************************************************************************************
Query operations
******************************************************************************************************
*/

func (t *CargoTracker) getShipment(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 1); err != nil {
		return shim.Error(err.Error())
	}
	found, err := manager.GetShipment(args[0])
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("shipment", found)
}

func (t *CargoTracker) getEventCount(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 1); err != nil {
		return shim.Error(err.Error())
	}
	count, err := manager.GetEventCount(args[0])
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("event count", count)
}

func (t *CargoTracker) getCurrentStatus(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 1); err != nil {
		return shim.Error(err.Error())
	}
	status, err := manager.GetCurrentStatus(args[0])
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("status", status)
}

func (t *CargoTracker) getCargoEvent(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	trackingId, index, err := trackingIdAndIndex(args)
	if err != nil {
		return shim.Error(err.Error())
	}
	event, err := manager.GetCargoEvent(trackingId, index)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("cargo event", event)
}

func (t *CargoTracker) getCargoEventPublic(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	trackingId, index, err := trackingIdAndIndex(args)
	if err != nil {
		return shim.Error(err.Error())
	}
	event, err := manager.GetCargoEventPublic(trackingId, index)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("cargo event", event)
}

func (t *CargoTracker) getShipmentDetails(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 1); err != nil {
		return shim.Error(err.Error())
	}
	details, err := manager.GetShipmentDetails(args[0])
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("shipment details", details)
}

func (t *CargoTracker) getShipmentHistory(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 1); err != nil {
		return shim.Error(err.Error())
	}
	history, err := manager.GetShipmentHistory(args[0])
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("shipment history", history)
}

func (t *CargoTracker) getEncryptedWeight(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	trackingId, index, err := trackingIdAndIndex(args)
	if err != nil {
		return shim.Error(err.Error())
	}
	handle, err := manager.GetEncryptedWeight(trackingId, index)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("weight handle", handle)
}

func (t *CargoTracker) getContentsLength(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	trackingId, index, err := trackingIdAndIndex(args)
	if err != nil {
		return shim.Error(err.Error())
	}
	length, err := manager.GetContentsLength(trackingId, index)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("contents length", length)
}

func (t *CargoTracker) getEncryptedContentsByte(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 3); err != nil {
		return shim.Error(err.Error())
	}
	index, err := parseIntArg("eventIndex", args[1])
	if err != nil {
		return shim.Error(err.Error())
	}
	byteIndex, err := parseIntArg("byteIndex", args[2])
	if err != nil {
		return shim.Error(err.Error())
	}
	handle, err := manager.GetEncryptedContentsByte(args[0], index, byteIndex)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("contents byte handle", handle)
}

func (t *CargoTracker) getTotalShipments(manager shipment_manager.ShipmentManager, args []string) pb.Response {
	if err := checkArgCount(args, 0); err != nil {
		return shim.Error(err.Error())
	}
	total, err := manager.GetTotalShipments()
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("total shipments", total)
}

func (t *CargoTracker) getConfig(stub shim.ChaincodeStubInterface, args []string) pb.Response {
	if err := checkArgCount(args, 0); err != nil {
		return shim.Error(err.Error())
	}
	config, err := shipment.GetConfig(stub)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("config", config)
}

/*
******************************************************************************************************
Confidential engine operations
******************************************************************************************************
*/

// grantDecryptCapability extends the additive grant list for a handle. Only a
// caller that already holds a capability for the handle may extend it.
func (t *CargoTracker) grantDecryptCapability(manager shipment_manager.ShipmentManager, engine *softengine.Engine, args []string) pb.Response {
	if err := checkEngine(engine); err != nil {
		return shim.Error(err.Error())
	}
	if err := checkArgCount(args, 2); err != nil {
		return shim.Error(err.Error())
	}
	handle := data_model.CipherHandle(args[0])

	callerHolds, err := engine.HasDecryptCapability(handle, manager.GetCaller().ID)
	if err != nil {
		return shim.Error(err.Error())
	}
	if !callerHolds {
		custom_err := &custom_errors.UnauthorizedError{Handle: args[0], Holder: manager.GetCaller().ID}
		logger.Errorf(custom_err.Error())
		return shim.Error(custom_err.Error())
	}

	if err := engine.GrantDecryptCapability(handle, args[1]); err != nil {
		return shim.Error(err.Error())
	}
	return shim.Success(nil)
}

func (t *CargoTracker) hasDecryptCapability(engine *softengine.Engine, args []string) pb.Response {
	if err := checkEngine(engine); err != nil {
		return shim.Error(err.Error())
	}
	if err := checkArgCount(args, 2); err != nil {
		return shim.Error(err.Error())
	}
	granted, err := engine.HasDecryptCapability(data_model.CipherHandle(args[0]), args[1])
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("capability", granted)
}

// decryptOnBehalfOf brokers a decryption for an authorized holder. The
// authorization signature is base64, the validity bound is unix seconds.
func (t *CargoTracker) decryptOnBehalfOf(engine *softengine.Engine, args []string) pb.Response {
	if err := checkEngine(engine); err != nil {
		return shim.Error(err.Error())
	}
	if err := checkArgCount(args, 4); err != nil {
		return shim.Error(err.Error())
	}
	authorization, err := base64.StdEncoding.DecodeString(args[2])
	if err != nil {
		custom_err := &custom_errors.InvalidArgumentError{Argument: "authorization", Reason: "not valid base64"}
		logger.Errorf("%v: %v", custom_err, err)
		return shim.Error(custom_err.Error())
	}
	validUntil, err := parseInt64Arg("validUntil", args[3])
	if err != nil {
		return shim.Error(err.Error())
	}

	plaintext, err := engine.DecryptOnBehalfOf(data_model.CipherHandle(args[0]), args[1], authorization, validUntil)
	if err != nil {
		return shim.Error(err.Error())
	}
	return marshalResponse("plaintext", base64.StdEncoding.EncodeToString(plaintext))
}

/*
******************************************************************************************************
Invocation plumbing
******************************************************************************************************
*/

// getCaller resolves the acting identity from the transient map.
func getCaller(stub shim.ChaincodeStubInterface) (data_model.Caller, error) {
	tmap, err := stub.GetTransient()
	if err != nil {
		logger.Errorf("Failed to get transient map: %v", err)
		return data_model.Caller{}, errors.Wrap(err, "Failed to get transient map")
	}
	callerID, ok := tmap[callerTransientKey]
	if !ok || len(callerID) == 0 {
		custom_err := &custom_errors.InvalidArgumentError{Argument: callerTransientKey, Reason: "missing caller identity in transient map"}
		logger.Errorf(custom_err.Error())
		return data_model.Caller{}, errors.WithStack(custom_err)
	}
	return data_model.Caller{ID: string(callerID)}, nil
}

// getEngine constructs the confidential engine when the transient map carries
// an engine key. Operations that never touch ciphertext run without one.
func getEngine(stub shim.ChaincodeStubInterface) (*softengine.Engine, error) {
	tmap, err := stub.GetTransient()
	if err != nil {
		logger.Errorf("Failed to get transient map: %v", err)
		return nil, errors.Wrap(err, "Failed to get transient map")
	}
	engineKey, ok := tmap[engineKeyTransientKey]
	if !ok {
		return nil, nil
	}
	return softengine.New(stub, engineKey)
}

func checkEngine(engine *softengine.Engine) error {
	if engine == nil {
		custom_err := &custom_errors.InvalidArgumentError{Argument: engineKeyTransientKey, Reason: "missing engine key in transient map"}
		logger.Errorf(custom_err.Error())
		return errors.WithStack(custom_err)
	}
	return nil
}

func checkArgCount(args []string, expected int) error {
	if len(args) != expected {
		custom_err := &custom_errors.InvalidArgumentError{
			Argument: "args",
			Reason:   "expected " + strconv.Itoa(expected) + " args, got " + strconv.Itoa(len(args)),
		}
		logger.Errorf(custom_err.Error())
		return errors.WithStack(custom_err)
	}
	return nil
}

func parseInt64Arg(name string, value string) (int64, error) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		custom_err := &custom_errors.InvalidArgumentError{Argument: name, Reason: "not a valid integer"}
		logger.Errorf("%v: %v", custom_err, err)
		return 0, errors.Wrap(err, custom_err.Error())
	}
	return parsed, nil
}

func parseIntArg(name string, value string) (int, error) {
	parsed, err := parseInt64Arg(name, value)
	if err != nil {
		return 0, err
	}
	return int(parsed), nil
}

func trackingIdAndIndex(args []string) (string, int, error) {
	if err := checkArgCount(args, 2); err != nil {
		return "", 0, err
	}
	index, err := parseIntArg("eventIndex", args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], index, nil
}

func marshalResponse(name string, payload interface{}) pb.Response {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: name}
		logger.Errorf("%v: %v", custom_err, err)
		return shim.Error(custom_err.Error())
	}
	return shim.Success(payloadBytes)
}
