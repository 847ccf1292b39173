/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// global package contains constants shared across all cargo-tracking packages.
// This should be the lowest level package (below data_model and utils).
package global

///////////////////////////////////////////////////////
// Ledger namespaces

// SHIPMENT_NAMESPACE is the composite key object type for Shipment records.
const SHIPMENT_NAMESPACE = "cargo.Shipment"

// CARGO_EVENT_NAMESPACE is the composite key object type for CargoEvent records.
const CARGO_EVENT_NAMESPACE = "cargo.CargoEvent"

// CIPHER_HANDLE_NAMESPACE is the composite key object type for stored ciphertext handles.
const CIPHER_HANDLE_NAMESPACE = "cargo.CipherHandle"

// CAPABILITY_NAMESPACE is the composite key object type for decrypt capability grants.
const CAPABILITY_NAMESPACE = "cargo.Capability"

// TOTAL_SHIPMENTS_KEY is the simple ledger key holding the global shipment counter.
const TOTAL_SHIPMENTS_KEY = "cargo.TotalShipments"

// CONFIG_KEY is the simple ledger key holding the tracker configuration record.
const CONFIG_KEY = "cargo.Config"

///////////////////////////////////////////////////////
// Identities

// RECORD_STORE_ID is the identity under which the record store itself holds
// decrypt capabilities, so later reads can be served on its behalf.
const RECORD_STORE_ID = "cargo.RecordStore"

///////////////////////////////////////////////////////
// Defaults

// DEFAULT_MIN_TRACKING_ID_LENGTH is the minimum tracking identifier length.
const DEFAULT_MIN_TRACKING_ID_LENGTH = 6

// DEFAULT_MIN_DWELL_SECONDS is the minimum time from shipment creation before
// a status transition is accepted.
const DEFAULT_MIN_DWELL_SECONDS = 3600

// DEFAULT_MAX_CONTENTS_LENGTH is the maximum number of one-byte ciphertexts
// in an encrypted contents payload.
const DEFAULT_MAX_CONTENTS_LENGTH = 64

// MAX_DELIVERY_WINDOW_SECONDS bounds estimatedDelivery to one year past creation.
const MAX_DELIVERY_WINDOW_SECONDS = 365 * 24 * 3600

// EVENT_INDEX_PAD_WIDTH is the zero-pad width for event index key components,
// so that lexicographic key order matches numeric event order.
const EVENT_INDEX_PAD_WIDTH = 10

///////////////////////////////////////////////////////
// Notifications

// SHIPMENT_CREATED_EVENT is the chaincode event name emitted on shipment creation.
const SHIPMENT_CREATED_EVENT = "ShipmentCreated"

// CARGO_EVENT_ADDED_EVENT is the chaincode event name emitted on event append.
const CARGO_EVENT_ADDED_EVENT = "CargoEventAdded"

// STATUS_UPDATED_EVENT is the chaincode event name emitted on a status change.
const STATUS_UPDATED_EVENT = "ShipmentStatusUpdated"

// CREATOR_REASSIGNED_EVENT is the chaincode event name emitted on creator reassignment.
const CREATOR_REASSIGNED_EVENT = "CreatorReassigned"
