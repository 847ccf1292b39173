/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package data_model

// Shipment is one tracked cargo record, keyed by its tracking identifier.
// TrackingId, Origin, Destination, CreatedAt, and EstimatedDelivery are
// immutable after creation. Creator is the sole identity permitted to append
// events or change status; it changes only through an explicit reassignment.
// EventCount always equals the number of CargoEvent records stored for this
// shipment; both are mutated inside the same transaction, never separately.
type Shipment struct {
	TrackingId        string `json:"tracking_id"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	CreatedAt         int64  `json:"created_at"`
	EstimatedDelivery int64  `json:"estimated_delivery"`
	Creator           string `json:"creator"`
	EventCount        int    `json:"event_count"`
	Exists            bool   `json:"exists"`
}

// Copy returns a copy of the shipment as a new object.
// Callers can use this function to copy an object to avoid using reference pointers.
func (shipment *Shipment) Copy() Shipment {
	newShipment := *shipment
	return newShipment
}

// ShipmentDetails aggregates a shipment, its full event list, and the event
// count in a single query result.
type ShipmentDetails struct {
	Shipment   Shipment     `json:"shipment"`
	Events     []CargoEvent `json:"events"`
	EventCount int          `json:"event_count"`
}

// ShipmentHistory projects three parallel, index-aligned sequences over all
// events of a shipment.
type ShipmentHistory struct {
	Locations  []string         `json:"locations"`
	Statuses   []ShipmentStatus `json:"statuses"`
	Timestamps []int64          `json:"timestamps"`
}

// Config is the tracker configuration record, written once at chaincode Init.
type Config struct {
	MinTrackingIdLength int   `json:"min_tracking_id_length"`
	MinDwellSeconds     int64 `json:"min_dwell_seconds"`
	MaxContentsLength   int   `json:"max_contents_length"`
}
