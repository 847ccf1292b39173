/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package shipment is the entry point for the cargo-tracking record store.
// It hands out ShipmentManager instances bound to one transaction and one
// caller; all ledger access goes through a manager.
package shipment

import (
	"github.com/JenniferSaul/secure-cargo-flow/confidential"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/shipment_i"
	"github.com/JenniferSaul/secure-cargo-flow/shipment/shipment_manager"
	"github.com/JenniferSaul/secure-cargo-flow/utils"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

var logger = utils.NewLogger("shipment")

// ------------------------------------------------------
// ----------------- TOP-LEVEL FUNCTIONS ----------------
// ------------------------------------------------------

// GetShipmentManager constructs a ShipmentManager for one transaction and
// caller, loading the stored configuration record.
func GetShipmentManager(stub shim.ChaincodeStubInterface, caller data_model.Caller, service confidential.Service) (shipment_manager.ShipmentManager, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))
	return shipment_i.GetShipmentManager(stub, caller, service)
}

// IsValidTransition returns true if to is the lifecycle stage immediately
// after from.
func IsValidTransition(from data_model.ShipmentStatus, to data_model.ShipmentStatus) bool {
	return shipment_i.IsValidTransition(from, to)
}

// GetConfig reads the tracker configuration record, falling back to the
// defaults when no record has been stored.
func GetConfig(stub shim.ChaincodeStubInterface) (data_model.Config, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))
	return shipment_i.GetConfig(stub)
}

// PutConfig stores the tracker configuration record, filling zero-valued
// fields with the defaults.
func PutConfig(stub shim.ChaincodeStubInterface, config data_model.Config) error {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))
	return shipment_i.PutConfig(stub, config)
}

// DefaultConfig returns the configuration used when Init stores no overrides.
func DefaultConfig() data_model.Config {
	return shipment_i.DefaultConfig()
}
