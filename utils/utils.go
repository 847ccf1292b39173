/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package utils contains convenience, helper, and utility functions.
package utils

import (
	"fmt"
	"regexp"
	"runtime"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = NewLogger("utils")

/*
******************************************************************************************************
Trace functions
******************************************************************************************************
*/

// NewLogger returns a named logger for a package.
// The shim no longer ships a ChaincodeLogger, so each package keeps the
// one-logger-per-package convention through a logrus entry instead.
func NewLogger(name string) *logrus.Entry {
	return logrus.StandardLogger().WithField("module", name)
}

// SetLogLevel sets the log level for all package loggers.
func SetLogLevel(level logrus.Level) {
	logrus.SetLevel(level)
}

// RE_stripFnPreamble uses regex to extract function names (and not the module path).
var RE_stripFnPreamble = regexp.MustCompile(`^.*\.(.*)$`)

// EnterFnLogger logs and returns the current function name at the start of function execution.
func EnterFnLogger(mylogger *logrus.Entry) string {
	fnName := "<unknown>"
	// Skip this function, and fetch the PC and file for its parent
	pc, _, _, ok := runtime.Caller(1)
	if ok {
		fnName = RE_stripFnPreamble.ReplaceAllString(runtime.FuncForPC(pc).Name(), "$1")
	}

	mylogger.Debugf("---> %s", fnName)
	return fnName
}

// ExitFnLogger logs the current function name at the end of execution.
func ExitFnLogger(mylogger *logrus.Entry, s string) {
	mylogger.Debugf("<--- %s", s)
}

/*
******************************************************************************************************
Helper functions
******************************************************************************************************
*/

// IsStringEmpty returns true if the given string is empty.
func IsStringEmpty(str string) bool {
	return len(str) == 0
}

// InList returns true if item is in listdata, false otherwise.
func InList(listdata []string, item string) bool {
	for _, elem := range listdata {
		if elem == item {
			return true
		}
	}
	return false
}

// PadIndex converts a non-negative index to a fixed-width, zero-padded string
// so that lexicographic ordering of ledger keys matches numeric ordering.
func PadIndex(index int, width int) string {
	return fmt.Sprintf("%0*d", width, index)
}

// GetTxTimestampInSeconds returns the transaction timestamp as unix seconds.
// All callers in a transaction observe the same value, which serves as the
// ledger's global clock.
func GetTxTimestampInSeconds(stub shim.ChaincodeStubInterface) (int64, error) {
	txTimestamp, err := stub.GetTxTimestamp()
	if err != nil {
		logger.Errorf("Failed to get tx timestamp: %v", err)
		return 0, errors.Wrap(err, "Failed to get tx timestamp")
	}
	return txTimestamp.GetSeconds(), nil
}
