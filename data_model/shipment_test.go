/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package data_model

import "testing"

func TestShipmentCopy(t *testing.T) {
	shipment := Shipment{
		TrackingId:        "CARGO-001",
		Origin:            "Shanghai",
		Destination:       "Rotterdam",
		CreatedAt:         1700000000,
		EstimatedDelivery: 1702000000,
		Creator:           "carrier1",
		EventCount:        2,
		Exists:            true,
	}
	copied := shipment.Copy()
	copied.Creator = "carrier2"
	copied.EventCount = 9

	if shipment.Creator != "carrier1" || shipment.EventCount != 2 {
		t.Fatal("expected mutations of the copy to leave the original untouched")
	}
	if copied.TrackingId != "CARGO-001" || copied.Destination != "Rotterdam" {
		t.Fatal("expected the copy to carry every field")
	}
}

func TestCargoEventCopy(t *testing.T) {
	event := CargoEvent{
		EventId:           1,
		Location:          "Suez",
		Status:            StatusInTransit,
		Description:       "Canal transit",
		EncryptedWeight:   "fhe:weight",
		EncryptedContents: []CipherHandle{"fhe:a", "fhe:b"},
	}
	copied := event.Copy()
	copied.EncryptedContents[0] = "fhe:tampered"

	// the handle list is deep-copied, not shared
	if event.EncryptedContents[0] != "fhe:a" {
		t.Fatal("expected the copy's handle list to be independent")
	}
	if copied.EncryptedWeight != "fhe:weight" || copied.Location != "Suez" {
		t.Fatal("expected the copy to carry every field")
	}
}
