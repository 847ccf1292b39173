/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package test_utils contains test utility functions for creating callers,
// transient maps, and mock transactions.
// These functions should only be used in unit tests.
package test_utils

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"runtime/debug"
	"testing"

	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/utils"
)

var logger = utils.NewLogger("test_utils")

// AssertTrue asserts that the given boolean is true.
func AssertTrue(t *testing.T, assertion bool, message string) {
	if !assertion {
		debug.PrintStack()
		t.Fatalf(message)
	}
}

// AssertFalse asserts that the given boolean is false.
func AssertFalse(t *testing.T, assertion bool, message string) {
	if assertion {
		debug.PrintStack()
		t.Fatalf(message)
	}
}

// AssertNilError if myError is not nil, prints error details/stack and fails the test
func AssertNilError(t *testing.T, myError error, message string) {
	if myError != nil {
		debug.PrintStack()
		logger.Errorf("%v || ErrorDetails: %v", message, myError)
		t.Fatalf(message)
	}
}

// AssertNotNilError asserts that myError is not nil.
func AssertNotNilError(t *testing.T, myError error, message string) {
	if myError == nil {
		debug.PrintStack()
		t.Fatalf(message)
	}
}

// AssertStringsEqual asserts that two strings are equal.
func AssertStringsEqual(t *testing.T, expected string, actual string, message string) {
	if expected != actual {
		debug.PrintStack()
		t.Log(message)
		t.Fatalf("Expected \"%v\", got \"%v\".", expected, actual)
	}
}

// AssertIntsEqual asserts that two ints are equal.
func AssertIntsEqual(t *testing.T, expected int, actual int, message string) {
	if expected != actual {
		debug.PrintStack()
		t.Log(message)
		t.Fatalf("Expected %v, got %v.", expected, actual)
	}
}

// AssertInLists asserts that expectedValue is in expectedList.
func AssertInLists(t *testing.T, expectedValue string, expectedList []string, message string) {
	if !utils.InList(expectedList, expectedValue) {
		debug.PrintStack()
		t.Log(message)
		t.Fatalf("Key %v is not in the list %v.", expectedValue, expectedList)
	}
}

// CreateTestCaller returns a caller identity for unit tests.
func CreateTestCaller(callerID string) data_model.Caller {
	return data_model.Caller{ID: callerID}
}

// GetTransientMapFromCaller builds the transient map a client would attach to
// a transaction for the given caller.
func GetTransientMapFromCaller(caller data_model.Caller) map[string][]byte {
	return map[string][]byte{"id": []byte(caller.ID)}
}

// GenerateRandomTxID returns a random hex transaction ID.
func GenerateRandomTxID() string {
	randomBytes := make([]byte, 16)
	_, err := io.ReadFull(rand.Reader, randomBytes)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(randomBytes)
}

// GenerateEngineKey returns a random 32-byte key for the confidential engine.
func GenerateEngineKey() []byte {
	key := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, key)
	if err != nil {
		panic(err)
	}
	return key
}
