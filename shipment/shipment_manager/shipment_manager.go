/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package shipment_manager defines the ShipmentManager interface, which
// exposes every write and query operation of the cargo-tracking record.
package shipment_manager

import (
	"github.com/JenniferSaul/secure-cargo-flow/confidential"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// ConfidentialPayload carries externally-encrypted candidate values for one
// event append. Weight and contents each come with their admission proof; the
// contents proof covers the whole byte batch.
type ConfidentialPayload struct {
	WeightCiphertext    confidential.ExternalCiphertext   `json:"weight_ciphertext,omitempty"`
	WeightProof         confidential.Proof                `json:"weight_proof,omitempty"`
	ContentsCiphertexts []confidential.ExternalCiphertext `json:"contents_ciphertexts,omitempty"`
	ContentsProof       confidential.Proof                `json:"contents_proof,omitempty"`
}

// HasWeight returns true if the payload carries fresh weight ciphertext.
func (payload *ConfidentialPayload) HasWeight() bool {
	return payload != nil && len(payload.WeightCiphertext) > 0
}

// HasContents returns true if the payload carries contents ciphertexts.
func (payload *ConfidentialPayload) HasContents() bool {
	return payload != nil && len(payload.ContentsCiphertexts) > 0
}

// EventDraft is the caller-supplied portion of a cargo event. EventId and
// Timestamp are assigned by the record store at append time.
type EventDraft struct {
	Location           string                    `json:"location"`
	Status             data_model.ShipmentStatus `json:"status"`
	Description        string                    `json:"description"`
	Confidential       *ConfidentialPayload      `json:"confidential,omitempty"`
	HasAnomaly         bool                      `json:"has_anomaly,omitempty"`
	AnomalyDescription string                    `json:"anomaly_description,omitempty"`
}

// ShipmentManager is the interface for accessing shipments and their
// append-only event lists. Write operations enforce the creator-identity
// invariant; every validation failure aborts with no partial mutation.
type ShipmentManager interface {
	// GetStub returns the stub of the transaction this manager is bound to.
	GetStub() shim.ChaincodeStubInterface

	// GetCaller returns the identity on whose behalf this manager operates.
	GetCaller() data_model.Caller

	// CreateShipment stores a new shipment record keyed by its tracking ID.
	// Fails with ShipmentAlreadyExistsError for a duplicate tracking ID, with
	// InvalidTrackingIdError for a short ID, and with
	// InvalidDeliveryWindowError for an estimated delivery at or before now
	// or more than one year out.
	CreateShipment(trackingId string, origin string, destination string, estimatedDelivery int64) (data_model.Shipment, error)

	// AddCargoEvent appends one event to a shipment's event list, routing any
	// confidential payload through the importer, or carrying the weight handle
	// forward from the first event when no fresh ciphertext is supplied.
	// The event's status must restate the current status or advance it one
	// lifecycle stage; fails with InvalidTransitionError otherwise.
	// The event, the updated count, and any capability grants land atomically.
	// Fails with ShipmentNotFoundError, ForbiddenError, or EmptyFieldError.
	AddCargoEvent(trackingId string, draft EventDraft) (data_model.CargoEvent, error)

	// UpdateStatus advances the shipment one lifecycle stage. Fails with
	// StatusNoOpError for the current status, InvalidTransitionError for any
	// skip or backward move, and TooSoonError before the dwell time from
	// creation has elapsed. On success appends a synthesized event.
	UpdateStatus(trackingId string, newStatus data_model.ShipmentStatus) (data_model.CargoEvent, error)

	// ReassignCreator transfers append/update authority to a new identity.
	// Fails with ForbiddenError unless the caller is the current creator, and
	// with InvalidArgumentError for an empty target or a self-transfer.
	ReassignCreator(trackingId string, newOwner string) error

	// GetShipment returns the shipment record.
	GetShipment(trackingId string) (data_model.Shipment, error)

	// GetEventCount returns the number of events appended so far.
	GetEventCount(trackingId string) (int, error)

	// GetCurrentStatus returns the status of the most recent event, or
	// Created when the event list is empty.
	GetCurrentStatus(trackingId string) (data_model.ShipmentStatus, error)

	// GetCargoEvent returns one event including its ciphertext handles.
	// Fails with IndexOutOfRangeError for an index past the event count.
	GetCargoEvent(trackingId string, index int) (data_model.CargoEvent, error)

	// GetCargoEventPublic returns one event with ciphertext handles omitted.
	GetCargoEventPublic(trackingId string, index int) (data_model.CargoEvent, error)

	// GetShipmentDetails aggregates the shipment, its full event list, and
	// the event count in one call.
	GetShipmentDetails(trackingId string) (data_model.ShipmentDetails, error)

	// GetShipmentHistory projects index-aligned locations, statuses, and
	// timestamps over all events.
	GetShipmentHistory(trackingId string) (data_model.ShipmentHistory, error)

	// GetEncryptedWeight returns the weight handle of one event for external
	// decryption.
	GetEncryptedWeight(trackingId string, index int) (data_model.CipherHandle, error)

	// GetContentsLength returns the number of contents bytes of one event.
	GetContentsLength(trackingId string, index int) (int, error)

	// GetEncryptedContentsByte returns one contents byte handle.
	// Fails with IndexOutOfRangeError for either index out of range.
	GetEncryptedContentsByte(trackingId string, index int, byteIndex int) (data_model.CipherHandle, error)

	// GetTotalShipments returns the global shipment counter.
	GetTotalShipments() (int64, error)
}
