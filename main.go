/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package main

import (
	"github.com/JenniferSaul/secure-cargo-flow/chaincode"
	"github.com/JenniferSaul/secure-cargo-flow/utils"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/sirupsen/logrus"
)

var logger = utils.NewLogger("main")

func main() {
	utils.SetLogLevel(logrus.InfoLevel)
	if err := shim.Start(new(chaincode.CargoTracker)); err != nil {
		logger.Errorf("Error starting cargo tracker chaincode: %v", err)
	}
}
