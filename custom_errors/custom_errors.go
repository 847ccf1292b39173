/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package custom_errors defines our custom error types.
//
// Custom types are useful for:
// 1) allowing callers to do type-checking to see the cause of the error.
// 2) re-using messages for common errors.
// If neither scenario applies, it's perfectly fine to instead use errors.New("some message").
//
// A custom error can be wrapped by another error when returned using errors.Wrap(err, custom_err.Error()).
// To return a custom error with stack trace, use errors.WithStack(custom_err).
// If returning a custom error for type checking, it must be returned without a wrapper.
package custom_errors

import (
	"fmt"
)

// MarshalError provides an error message for json.Marshal failure.
type MarshalError struct {
	Type string
}

func (e *MarshalError) Error() string {
	return fmt.Sprintf("Failed to marshal %v", e.Type)
}

// UnmarshalError provides an error message for json.Unmarshal failure.
type UnmarshalError struct {
	Type string
}

func (e *UnmarshalError) Error() string {
	return fmt.Sprintf("Failed to unmarshal %v", e.Type)
}

// LengthCheckingError provides an error message for an incorrect slice or string length.
type LengthCheckingError struct {
	Type string
}

func (e *LengthCheckingError) Error() string {
	return fmt.Sprintf("Length of %v does not match expected", e.Type)
}

// Ledger

// CreateCompositeKeyError provides an error message for stub.CreateCompositeKey failure.
type CreateCompositeKeyError struct {
	Type string
}

func (e *CreateCompositeKeyError) Error() string {
	return fmt.Sprintf("Failed to create composite key for %v", e.Type)
}

// GetLedgerError provides an error message for failure to retrieve an item from the ledger.
type GetLedgerError struct {
	LedgerKey  string
	LedgerItem string
}

func (e *GetLedgerError) Error() string {
	return fmt.Sprintf("Failed to get ledger item \"%v\" from ledger with ledger key \"%v\"", e.LedgerItem, e.LedgerKey)
}

// PutLedgerError provides an error message for failure to save an item to the ledger.
type PutLedgerError struct {
	LedgerKey string
}

func (e *PutLedgerError) Error() string {
	return fmt.Sprintf("Failed to put %v in ledger", e.LedgerKey)
}

// GetTxTimestampError provides an error message for failure to read the transaction timestamp.
type GetTxTimestampError struct{}

func (e *GetTxTimestampError) Error() string {
	return "Failed to get transaction timestamp"
}

// Validation

// InvalidTrackingIdError provides an error message for a tracking ID that fails validation.
type InvalidTrackingIdError struct {
	TrackingId string
	MinLength  int
}

func (e *InvalidTrackingIdError) Error() string {
	return fmt.Sprintf("Tracking ID too short: \"%v\" (minimum length %v)", e.TrackingId, e.MinLength)
}

// EmptyFieldError provides an error message for a required field that is empty.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("Required field \"%v\" is empty", e.Field)
}

// InvalidDeliveryWindowError provides an error message for an estimated delivery outside the allowed window.
type InvalidDeliveryWindowError struct {
	Reason string
}

func (e *InvalidDeliveryWindowError) Error() string {
	return fmt.Sprintf("Invalid estimated delivery: %v", e.Reason)
}

// InvalidArgumentError provides an error message for a malformed argument.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("Invalid argument \"%v\": %v", e.Argument, e.Reason)
}

// Shipment record store

// ShipmentAlreadyExistsError provides an error message for duplicate shipment creation.
type ShipmentAlreadyExistsError struct {
	TrackingId string
}

func (e *ShipmentAlreadyExistsError) Error() string {
	return fmt.Sprintf("Shipment \"%v\" already exists", e.TrackingId)
}

// ShipmentNotFoundError provides an error message for an unknown tracking ID.
type ShipmentNotFoundError struct {
	TrackingId string
}

func (e *ShipmentNotFoundError) Error() string {
	return fmt.Sprintf("Shipment \"%v\" does not exist", e.TrackingId)
}

// ForbiddenError provides an error message for a caller that is not the shipment's creator.
type ForbiddenError struct {
	CallerId   string
	TrackingId string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Caller \"%v\" is not the creator of shipment \"%v\"", e.CallerId, e.TrackingId)
}

// IndexOutOfRangeError provides an error message for an event or byte index past the end of its list.
type IndexOutOfRangeError struct {
	Item  string
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%v index %v out of range (count %v)", e.Item, e.Index, e.Count)
}

// Status transition engine

// InvalidTransitionError provides an error message for a status change that skips or reverses lifecycle stages.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Invalid status transition from %v to %v", e.From, e.To)
}

// StatusNoOpError provides an error message for a status change to the current status.
type StatusNoOpError struct {
	Status string
}

func (e *StatusNoOpError) Error() string {
	return fmt.Sprintf("Shipment is already in status %v", e.Status)
}

// TooSoonError provides an error message for a status change attempted before the dwell time has elapsed.
type TooSoonError struct {
	RemainingSeconds int64
}

func (e *TooSoonError) Error() string {
	return fmt.Sprintf("Status change attempted too soon: %v seconds remaining", e.RemainingSeconds)
}

// InvalidStatusError provides an error message for a value that is not a lifecycle stage.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("\"%v\" is not a valid shipment status", e.Value)
}

// Confidential fields

// ProofVerificationError provides an error message for a ciphertext admission proof that does not verify.
type ProofVerificationError struct {
	Reason string
}

func (e *ProofVerificationError) Error() string {
	return fmt.Sprintf("Proof verification failed: %v", e.Reason)
}

// UnauthorizedError provides an error message for a decrypt request without a valid capability grant.
type UnauthorizedError struct {
	Handle string
	Holder string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("Holder \"%v\" is not authorized to decrypt handle \"%v\"", e.Holder, e.Handle)
}

// HandleNotFoundError provides an error message for an unknown ciphertext handle.
type HandleNotFoundError struct {
	Handle string
}

func (e *HandleNotFoundError) Error() string {
	return fmt.Sprintf("Ciphertext handle \"%v\" does not exist", e.Handle)
}
