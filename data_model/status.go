/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package data_model

import (
	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"

	"github.com/pkg/errors"
)

// ShipmentStatus is one of the five lifecycle stages of a shipment.
// The stages are strictly ordered; transitions only ever move one stage
// forward, never backward and never skipping.
type ShipmentStatus string

const (
	// StatusCreated is the initial stage of every shipment.
	StatusCreated ShipmentStatus = "CREATED"

	// StatusInTransit marks a shipment that has left its origin.
	StatusInTransit ShipmentStatus = "IN_TRANSIT"

	// StatusCustomsClearance marks a shipment held at customs.
	StatusCustomsClearance ShipmentStatus = "CUSTOMS_CLEARANCE"

	// StatusArrived marks a shipment at its destination facility.
	StatusArrived ShipmentStatus = "ARRIVED"

	// StatusDelivered is the terminal stage.
	StatusDelivered ShipmentStatus = "DELIVERED"
)

// statusRanks fixes the lifecycle order. Gapless ranks let the transition
// check reduce to "next rank is exactly current rank + 1".
var statusRanks = map[ShipmentStatus]int{
	StatusCreated:          0,
	StatusInTransit:        1,
	StatusCustomsClearance: 2,
	StatusArrived:          3,
	StatusDelivered:        4,
}

// IsValid returns true if the status is one of the five lifecycle stages.
func (status ShipmentStatus) IsValid() bool {
	_, ok := statusRanks[status]
	return ok
}

// Rank returns the position of the status in the lifecycle order.
// Calling Rank on an invalid status returns -1.
func (status ShipmentStatus) Rank() int {
	rank, ok := statusRanks[status]
	if !ok {
		return -1
	}
	return rank
}

// ParseShipmentStatus converts a string to a ShipmentStatus.
// Returns an InvalidStatusError for any value outside the five stages.
func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	status := ShipmentStatus(value)
	if !status.IsValid() {
		custom_err := &custom_errors.InvalidStatusError{Value: value}
		return "", errors.WithStack(custom_err)
	}
	return status, nil
}
