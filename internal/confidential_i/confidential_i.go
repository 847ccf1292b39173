/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package confidential_i implements the confidential field importer.
package confidential_i

import (
	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"
	"github.com/JenniferSaul/secure-cargo-flow/utils"

	"github.com/pkg/errors"
)

var logger = utils.NewLogger("confidential_i")

// KindUint32 marks a ciphertext of a 32-bit unsigned integer.
const KindUint32 = "uint32"

// KindByte marks a ciphertext of a single byte.
const KindByte = "byte"

// ExternalCiphertext is a candidate ciphertext produced outside the ledger.
type ExternalCiphertext []byte

// Proof attests well-formedness of one or more external ciphertexts.
type Proof []byte

// ContextBinding ties an admission proof to a (record, submitter, kind) triple.
type ContextBinding struct {
	TrackingId string `json:"tracking_id"`
	Submitter  string `json:"submitter"`
	Kind       string `json:"kind"`
}

// Service is the consumed interface of the confidential-computation engine.
type Service interface {
	// VerifyAndAdmit checks the proof against the external ciphertext and
	// binding, and on success stores the ciphertext under a fresh internal
	// handle. Fails with ProofVerificationError otherwise.
	VerifyAndAdmit(external ExternalCiphertext, proof Proof, binding ContextBinding) (data_model.CipherHandle, error)

	// VerifyAndAdmitBatch admits a batch of ciphertexts that share one proof.
	// The proof must cover exactly the supplied handle set; the whole batch
	// fails otherwise.
	VerifyAndAdmitBatch(externals []ExternalCiphertext, proof Proof, binding ContextBinding) ([]data_model.CipherHandle, error)

	// GrantDecryptCapability extends the additive capability list. Idempotent.
	GrantDecryptCapability(handle data_model.CipherHandle, holder string) error

	// HasDecryptCapability reports whether a grant exists for (handle, holder).
	HasDecryptCapability(handle data_model.CipherHandle, holder string) (bool, error)

	// DecryptOnBehalfOf decrypts for an authorized holder. The authorization
	// signature must verify for (handle, holder, validUntil) and the validity
	// window must not have passed; fails with UnauthorizedError otherwise.
	DecryptOnBehalfOf(handle data_model.CipherHandle, holder string, authorization []byte, validUntil int64) ([]byte, error)
}

// Importer admits confidential fields for a single shipment and submitter.
type Importer interface {
	// ImportWeight admits a weight ciphertext and grants decrypt capability
	// to the record store and the submitter.
	ImportWeight(external ExternalCiphertext, proof Proof) (data_model.CipherHandle, error)

	// ImportContents admits a byte-wise contents payload under one shared
	// proof, granting capabilities for every admitted handle. All-or-nothing.
	ImportContents(externals []ExternalCiphertext, proof Proof, maxLength int) ([]data_model.CipherHandle, error)

	// CarryForwardWeight returns the canonical weight handle for an event
	// appended without fresh weight ciphertext: the FIRST event's handle.
	// It never fabricates a handle and never re-imports or re-grants.
	CarryForwardWeight(priorEvents []data_model.CargoEvent) data_model.CipherHandle
}

// importerImpl is the default implementation of the Importer interface.
type importerImpl struct {
	service    Service
	trackingId string
	submitter  data_model.Caller
}

// GetImporter constructs and returns an importerImpl instance.
func GetImporter(service Service, trackingId string, submitter data_model.Caller) Importer {
	return &importerImpl{service: service, trackingId: trackingId, submitter: submitter}
}

// ImportWeight documentation can be found in the interface definition of Importer.
func (importer *importerImpl) ImportWeight(external ExternalCiphertext, proof Proof) (data_model.CipherHandle, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	binding := ContextBinding{
		TrackingId: importer.trackingId,
		Submitter:  importer.submitter.ID,
		Kind:       KindUint32,
	}
	handle, err := importer.service.VerifyAndAdmit(external, proof, binding)
	if err != nil {
		logger.Errorf("Failed to admit weight ciphertext for %v: %v", importer.trackingId, err)
		return "", errors.Wrap(err, "Failed to admit weight ciphertext")
	}

	if err := importer.grantPair(handle); err != nil {
		return "", err
	}
	return handle, nil
}

// ImportContents documentation can be found in the interface definition of Importer.
func (importer *importerImpl) ImportContents(externals []ExternalCiphertext, proof Proof, maxLength int) ([]data_model.CipherHandle, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	if maxLength <= 0 {
		maxLength = global.DEFAULT_MAX_CONTENTS_LENGTH
	}
	if len(externals) == 0 {
		custom_err := &custom_errors.LengthCheckingError{Type: "contents ciphertexts"}
		logger.Errorf(custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}
	if len(externals) > maxLength {
		custom_err := &custom_errors.ProofVerificationError{Reason: "contents payload exceeds maximum length"}
		logger.Errorf(custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}

	binding := ContextBinding{
		TrackingId: importer.trackingId,
		Submitter:  importer.submitter.ID,
		Kind:       KindByte,
	}
	handles, err := importer.service.VerifyAndAdmitBatch(externals, proof, binding)
	if err != nil {
		logger.Errorf("Failed to admit contents batch for %v: %v", importer.trackingId, err)
		return nil, errors.Wrap(err, "Failed to admit contents batch")
	}

	for _, handle := range handles {
		if err := importer.grantPair(handle); err != nil {
			return nil, err
		}
	}
	return handles, nil
}

// CarryForwardWeight documentation can be found in the interface definition of Importer.
func (importer *importerImpl) CarryForwardWeight(priorEvents []data_model.CargoEvent) data_model.CipherHandle {
	if len(priorEvents) == 0 {
		return ""
	}
	// The first event's handle is the canonical weight; reusing it by
	// reference pays no additional proof or grant cost.
	return priorEvents[0].EncryptedWeight
}

// grantPair registers the two capability grants every import carries: the
// record store (so later reads can be served) and the submitter.
func (importer *importerImpl) grantPair(handle data_model.CipherHandle) error {
	if err := importer.service.GrantDecryptCapability(handle, global.RECORD_STORE_ID); err != nil {
		logger.Errorf("Failed to grant record store capability for %v: %v", handle, err)
		return errors.Wrap(err, "Failed to grant record store capability")
	}
	if err := importer.service.GrantDecryptCapability(handle, importer.submitter.ID); err != nil {
		logger.Errorf("Failed to grant submitter capability for %v: %v", handle, err)
		return errors.Wrap(err, "Failed to grant submitter capability")
	}
	return nil
}
