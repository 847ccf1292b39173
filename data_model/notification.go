/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package data_model

// Notification payloads emitted through the ledger's event stream.
// Each carries the acting identity and the affected tracking ID so external
// indexers can reconstruct per-shipment timelines without replaying all records.

// ShipmentCreatedNotification is emitted once per successful shipment creation.
type ShipmentCreatedNotification struct {
	TrackingId        string `json:"tracking_id"`
	Creator           string `json:"creator"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	EstimatedDelivery int64  `json:"estimated_delivery"`
}

// CargoEventAddedNotification is emitted once per successful event append.
type CargoEventAddedNotification struct {
	TrackingId string         `json:"tracking_id"`
	EventId    int            `json:"event_id"`
	Caller     string         `json:"caller"`
	Location   string         `json:"location"`
	Status     ShipmentStatus `json:"status"`
}

// StatusUpdatedNotification is emitted once per successful status change.
type StatusUpdatedNotification struct {
	TrackingId string         `json:"tracking_id"`
	EventId    int            `json:"event_id"`
	Caller     string         `json:"caller"`
	OldStatus  ShipmentStatus `json:"old_status"`
	NewStatus  ShipmentStatus `json:"new_status"`
}

// CreatorReassignedNotification is emitted once per successful creator reassignment.
type CreatorReassignedNotification struct {
	TrackingId string `json:"tracking_id"`
	OldCreator string `json:"old_creator"`
	NewCreator string `json:"new_creator"`
}
