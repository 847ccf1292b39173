/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package confidential bridges externally-encrypted candidate values into
// ledger-stored ciphertext handles and manages the decrypt-capability grant
// list. The confidential-computation engine itself is a collaborator behind
// the Service interface; this package never sees plaintext.
//
// Capabilities are additive only. There is no revoke operation here; every
// import is an irreversible grant to the submitter and to the record store.
package confidential

import (
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/confidential_i"
	"github.com/JenniferSaul/secure-cargo-flow/utils"
)

var logger = utils.NewLogger("confidential")

///////////////////////////////////////////////////////
// Ciphertext kinds

// KindUint32 marks a ciphertext of a 32-bit unsigned integer (weight in grams).
const KindUint32 = confidential_i.KindUint32

// KindByte marks a ciphertext of a single byte (one element of an encoded contents payload).
const KindByte = confidential_i.KindByte

// ExternalCiphertext is a candidate ciphertext produced outside the ledger,
// not yet admitted by the engine.
type ExternalCiphertext = confidential_i.ExternalCiphertext

// Proof attests that external ciphertexts are well-formed and bound to a
// specific record and submitter. One proof may cover a whole batch.
type Proof = confidential_i.Proof

// ContextBinding ties an admission proof to a (record, submitter, kind) triple
// so ciphertexts cannot be replayed across shipments or submitters.
type ContextBinding = confidential_i.ContextBinding

// Service is the consumed interface of the confidential-computation engine.
// Verification, homomorphic evaluation, and decryption brokering happen behind
// it; the tracking logic only admits handles and extends the grant list.
type Service = confidential_i.Service

// Importer admits confidential fields for a single shipment on behalf of a
// single submitter, extending the decrypt-capability list on every import.
type Importer = confidential_i.Importer

// ------------------------------------------------------
// ----------------- TOP-LEVEL FUNCTIONS ----------------
// ------------------------------------------------------

// GetImporter constructs an Importer for one shipment and submitter.
func GetImporter(service Service, trackingId string, submitter data_model.Caller) Importer {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))
	return confidential_i.GetImporter(service, trackingId, submitter)
}
