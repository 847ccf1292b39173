/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package data_model contains structs used across packages to prevent circular imports.
// For example, the CargoEvent struct is needed by both the shipment record store and
// the confidential field importer, but the record store depends on functions of the
// importer. They can't import each other, so the shared structs live here.
package data_model

// Caller is the identity on whose behalf a transaction executes.
// ID is extracted from the transaction's transient map by the chaincode layer;
// wallet and signing concerns live outside the chaincode.
type Caller struct {
	ID string `json:"id"`
}
