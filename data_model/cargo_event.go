/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package data_model

// CipherHandle is an opaque reference to a ciphertext admitted into the
// confidential-computation engine. The record stores handles only; plaintext
// never touches the ledger, and decryption requires a capability grant held
// by the engine.
type CipherHandle string

// IsEmpty returns true if the handle does not reference any ciphertext.
func (h CipherHandle) IsEmpty() bool {
	return len(h) == 0
}

// CargoEvent is one entry of a shipment's append-only event list.
// EventId is the 0-based, gapless sequential index assigned at append time.
// EncryptedWeight references a 32-bit unsigned gram value; EncryptedContents
// references a free-text payload encoded as one handle per byte.
type CargoEvent struct {
	EventId            int            `json:"event_id"`
	Timestamp          int64          `json:"timestamp"`
	Location           string         `json:"location"`
	Status             ShipmentStatus `json:"status"`
	Description        string         `json:"description"`
	EncryptedWeight    CipherHandle   `json:"encrypted_weight"`
	EncryptedContents  []CipherHandle `json:"encrypted_contents"`
	HasAnomaly         bool           `json:"has_anomaly"`
	AnomalyDescription string         `json:"anomaly_description,omitempty"`
}

// PublicView returns the event with all ciphertext handles omitted, for
// callers that should see operational data only.
func (event *CargoEvent) PublicView() CargoEvent {
	public := *event
	public.EncryptedWeight = ""
	public.EncryptedContents = nil
	return public
}

// Copy returns a copy of the event as a new object.
func (event *CargoEvent) Copy() CargoEvent {
	newEvent := *event
	if event.EncryptedContents != nil {
		newEvent.EncryptedContents = make([]CipherHandle, len(event.EncryptedContents))
		copy(newEvent.EncryptedContents, event.EncryptedContents)
	}
	return newEvent
}
