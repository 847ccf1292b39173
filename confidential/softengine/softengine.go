/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

// Package softengine is a software reference implementation of the
// confidential-computation Service. Ciphertext payloads are sealed with
// chacha20poly1305 under a single engine key, admission proofs are SHA-256
// commitments over the ciphertext batch and its context binding, and the
// decrypt-capability list is an append-only set of ledger keys.
//
// It stands in for a hardware or homomorphic engine in tests and single-org
// deployments. The homomorphic scheme itself is out of scope; only the
// admit/grant/decrypt contract is honored.
package softengine

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"strconv"

	"github.com/JenniferSaul/secure-cargo-flow/confidential"
	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"
	"github.com/JenniferSaul/secure-cargo-flow/utils"

	"github.com/google/uuid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

var logger = utils.NewLogger("softengine")

// handlePrefix namespaces engine handles so they are recognizable as opaque
// references rather than ledger keys or plaintext.
const handlePrefix = "fhe:"

// handleRecord is the ledger representation of an admitted ciphertext.
type handleRecord struct {
	Handle     string `json:"handle"`
	Kind       string `json:"kind"`
	Sealed     []byte `json:"sealed"`
	TrackingId string `json:"tracking_id"`
	Submitter  string `json:"submitter"`
	AdmittedAt int64  `json:"admitted_at"`
}

// capabilityGrant marks one (handle, holder) entry of the additive grant list.
type capabilityGrant struct {
	GrantedAt int64 `json:"granted_at"`
}

// Engine implements confidential.Service against chaincode state.
type Engine struct {
	stub shim.ChaincodeStubInterface
	key  []byte
}

// New constructs an Engine bound to the current transaction's stub.
// The engine key must be 32 bytes.
func New(stub shim.ChaincodeStubInterface, engineKey []byte) (*Engine, error) {
	if len(engineKey) != chacha20poly1305.KeySize {
		custom_err := &custom_errors.LengthCheckingError{Type: "engine key"}
		logger.Errorf(custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}
	return &Engine{stub: stub, key: engineKey}, nil
}

// VerifyAndAdmit documentation can be found in the interface definition of confidential.Service.
func (engine *Engine) VerifyAndAdmit(external confidential.ExternalCiphertext, proof confidential.Proof, binding confidential.ContextBinding) (data_model.CipherHandle, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	handles, err := engine.VerifyAndAdmitBatch([]confidential.ExternalCiphertext{external}, proof, binding)
	if err != nil {
		return "", err
	}
	return handles[0], nil
}

// VerifyAndAdmitBatch documentation can be found in the interface definition of confidential.Service.
func (engine *Engine) VerifyAndAdmitBatch(externals []confidential.ExternalCiphertext, proof confidential.Proof, binding confidential.ContextBinding) ([]data_model.CipherHandle, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	if len(externals) == 0 {
		custom_err := &custom_errors.ProofVerificationError{Reason: "empty ciphertext batch"}
		logger.Errorf(custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}

	// The proof must cover exactly the supplied handle set and binding.
	expected := ComputeProof(externals, binding)
	if !hmac.Equal(expected, proof) {
		custom_err := &custom_errors.ProofVerificationError{Reason: "proof does not cover the supplied ciphertexts and binding"}
		logger.Errorf(custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}

	now, err := utils.GetTxTimestampInSeconds(engine.stub)
	if err != nil {
		return nil, err
	}

	handles := make([]data_model.CipherHandle, 0, len(externals))
	for i, external := range externals {
		// Opening the seal proves well-formedness under the bound context.
		plaintext, err := engine.open(external, binding)
		if err != nil {
			custom_err := &custom_errors.ProofVerificationError{Reason: "ciphertext is not well-formed for its binding"}
			logger.Errorf("%v: %v", custom_err.Error(), err)
			return nil, errors.Wrap(err, custom_err.Error())
		}
		if err := checkKind(plaintext, binding.Kind); err != nil {
			return nil, err
		}

		handle := engine.mintHandle(external, binding, i)
		record := handleRecord{
			Handle:     string(handle),
			Kind:       binding.Kind,
			Sealed:     external,
			TrackingId: binding.TrackingId,
			Submitter:  binding.Submitter,
			AdmittedAt: now,
		}
		if err := engine.putHandleRecord(record); err != nil {
			return nil, err
		}
		handles = append(handles, handle)
	}
	return handles, nil
}

// GrantDecryptCapability documentation can be found in the interface definition of confidential.Service.
// Grants are additive only; nothing in this package deletes a capability key.
func (engine *Engine) GrantDecryptCapability(handle data_model.CipherHandle, holder string) error {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	exists, err := engine.HasDecryptCapability(handle, holder)
	if err != nil {
		return err
	}
	if exists {
		// idempotent
		return nil
	}

	now, err := utils.GetTxTimestampInSeconds(engine.stub)
	if err != nil {
		return err
	}
	ledgerKey, err := engine.capabilityKey(handle, holder)
	if err != nil {
		return err
	}
	grantBytes, err := json.Marshal(&capabilityGrant{GrantedAt: now})
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: "capabilityGrant"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return errors.Wrap(err, custom_err.Error())
	}
	if err := engine.stub.PutState(ledgerKey, grantBytes); err != nil {
		custom_err := &custom_errors.PutLedgerError{LedgerKey: ledgerKey}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return errors.Wrap(err, custom_err.Error())
	}
	return nil
}

// HasDecryptCapability documentation can be found in the interface definition of confidential.Service.
func (engine *Engine) HasDecryptCapability(handle data_model.CipherHandle, holder string) (bool, error) {
	ledgerKey, err := engine.capabilityKey(handle, holder)
	if err != nil {
		return false, err
	}
	grantBytes, err := engine.stub.GetState(ledgerKey)
	if err != nil {
		custom_err := &custom_errors.GetLedgerError{LedgerKey: ledgerKey, LedgerItem: "capabilityGrant"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return false, errors.Wrap(err, custom_err.Error())
	}
	return grantBytes != nil, nil
}

// DecryptOnBehalfOf documentation can be found in the interface definition of confidential.Service.
func (engine *Engine) DecryptOnBehalfOf(handle data_model.CipherHandle, holder string, authorization []byte, validUntil int64) ([]byte, error) {
	defer utils.ExitFnLogger(logger, utils.EnterFnLogger(logger))

	now, err := utils.GetTxTimestampInSeconds(engine.stub)
	if err != nil {
		return nil, err
	}
	if now > validUntil {
		custom_err := &custom_errors.UnauthorizedError{Handle: string(handle), Holder: holder}
		logger.Errorf("%v: validity window passed", custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}

	granted, err := engine.HasDecryptCapability(handle, holder)
	if err != nil {
		return nil, err
	}
	if !granted {
		custom_err := &custom_errors.UnauthorizedError{Handle: string(handle), Holder: holder}
		logger.Errorf(custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}

	expected := engine.Authorize(handle, holder, validUntil)
	if !hmac.Equal(expected, authorization) {
		custom_err := &custom_errors.UnauthorizedError{Handle: string(handle), Holder: holder}
		logger.Errorf("%v: bad authorization signature", custom_err.Error())
		return nil, errors.WithStack(custom_err)
	}

	record, err := engine.getHandleRecord(handle)
	if err != nil {
		return nil, err
	}
	binding := confidential.ContextBinding{TrackingId: record.TrackingId, Submitter: record.Submitter, Kind: record.Kind}
	plaintext, err := engine.open(record.Sealed, binding)
	if err != nil {
		custom_err := &custom_errors.HandleNotFoundError{Handle: string(handle)}
		logger.Errorf("%v: stored ciphertext failed to open: %v", custom_err.Error(), err)
		return nil, errors.Wrap(err, custom_err.Error())
	}
	return plaintext, nil
}

// Authorize produces the decryption-brokering signature for
// (handle, holder, validUntil). In production this runs on the brokering side
// after out-of-band holder authentication.
func (engine *Engine) Authorize(handle data_model.CipherHandle, holder string, validUntil int64) []byte {
	mac := hmac.New(sha256.New, engine.holderSecret(holder))
	mac.Write([]byte(string(handle) + "|" + holder + "|" + strconv.FormatInt(validUntil, 10)))
	return mac.Sum(nil)
}

func (engine *Engine) holderSecret(holder string) []byte {
	mac := hmac.New(sha256.New, engine.key)
	mac.Write([]byte("holder:" + holder))
	return mac.Sum(nil)
}

// mintHandle derives a deterministic handle so all endorsers agree on it.
func (engine *Engine) mintHandle(external confidential.ExternalCiphertext, binding confidential.ContextBinding, index int) data_model.CipherHandle {
	var buf bytes.Buffer
	buf.WriteString(engine.stub.GetTxID())
	buf.WriteString("|")
	buf.Write(bindingBytes(binding))
	buf.WriteString("|")
	buf.WriteString(strconv.Itoa(index))
	buf.WriteString("|")
	buf.Write(external)
	return data_model.CipherHandle(handlePrefix + uuid.NewSHA1(uuid.NameSpaceOID, buf.Bytes()).String())
}

func (engine *Engine) open(sealed []byte, binding confidential.ContextBinding) ([]byte, error) {
	aead, err := chacha20poly1305.New(engine.key)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to construct cipher")
	}
	if len(sealed) < aead.NonceSize() {
		custom_err := &custom_errors.LengthCheckingError{Type: "sealed ciphertext"}
		return nil, errors.WithStack(custom_err)
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, bindingBytes(binding))
}

func (engine *Engine) putHandleRecord(record handleRecord) error {
	ledgerKey, err := engine.stub.CreateCompositeKey(global.CIPHER_HANDLE_NAMESPACE, []string{record.Handle})
	if err != nil {
		custom_err := &custom_errors.CreateCompositeKeyError{Type: "handleRecord"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return errors.Wrap(err, custom_err.Error())
	}
	recordBytes, err := json.Marshal(&record)
	if err != nil {
		custom_err := &custom_errors.MarshalError{Type: "handleRecord"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return errors.Wrap(err, custom_err.Error())
	}
	if err := engine.stub.PutState(ledgerKey, recordBytes); err != nil {
		custom_err := &custom_errors.PutLedgerError{LedgerKey: ledgerKey}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return errors.Wrap(err, custom_err.Error())
	}
	return nil
}

func (engine *Engine) getHandleRecord(handle data_model.CipherHandle) (handleRecord, error) {
	record := handleRecord{}
	ledgerKey, err := engine.stub.CreateCompositeKey(global.CIPHER_HANDLE_NAMESPACE, []string{string(handle)})
	if err != nil {
		custom_err := &custom_errors.CreateCompositeKeyError{Type: "handleRecord"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return record, errors.Wrap(err, custom_err.Error())
	}
	recordBytes, err := engine.stub.GetState(ledgerKey)
	if err != nil {
		custom_err := &custom_errors.GetLedgerError{LedgerKey: ledgerKey, LedgerItem: "handleRecord"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return record, errors.Wrap(err, custom_err.Error())
	}
	if recordBytes == nil {
		custom_err := &custom_errors.HandleNotFoundError{Handle: string(handle)}
		logger.Errorf(custom_err.Error())
		return record, errors.WithStack(custom_err)
	}
	if err := json.Unmarshal(recordBytes, &record); err != nil {
		custom_err := &custom_errors.UnmarshalError{Type: "handleRecord"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return record, errors.Wrap(err, custom_err.Error())
	}
	return record, nil
}

func (engine *Engine) capabilityKey(handle data_model.CipherHandle, holder string) (string, error) {
	ledgerKey, err := engine.stub.CreateCompositeKey(global.CAPABILITY_NAMESPACE, []string{string(handle), holder})
	if err != nil {
		custom_err := &custom_errors.CreateCompositeKeyError{Type: "capabilityGrant"}
		logger.Errorf("%v: %v", custom_err.Error(), err)
		return "", errors.Wrap(err, custom_err.Error())
	}
	return ledgerKey, nil
}

func checkKind(plaintext []byte, kind string) error {
	switch kind {
	case confidential.KindUint32:
		if len(plaintext) != 4 {
			custom_err := &custom_errors.ProofVerificationError{Reason: "weight plaintext is not a 32-bit unsigned value"}
			logger.Errorf(custom_err.Error())
			return errors.WithStack(custom_err)
		}
	case confidential.KindByte:
		if len(plaintext) != 1 {
			custom_err := &custom_errors.ProofVerificationError{Reason: "contents element is not a single byte"}
			logger.Errorf(custom_err.Error())
			return errors.WithStack(custom_err)
		}
	default:
		custom_err := &custom_errors.ProofVerificationError{Reason: "unknown ciphertext kind " + kind}
		logger.Errorf(custom_err.Error())
		return errors.WithStack(custom_err)
	}
	return nil
}

func bindingBytes(binding confidential.ContextBinding) []byte {
	return []byte(binding.TrackingId + "|" + binding.Submitter + "|" + binding.Kind)
}

/*
******************************************************************************************************
Client-side helpers
******************************************************************************************************
*/

// ComputeProof builds the admission proof for a ciphertext batch: a SHA-256
// commitment over the ciphertexts in order and the context binding.
func ComputeProof(externals []confidential.ExternalCiphertext, binding confidential.ContextBinding) confidential.Proof {
	hash := sha256.New()
	for _, external := range externals {
		hash.Write(external)
	}
	hash.Write(bindingBytes(binding))
	return hash.Sum(nil)
}

// EncryptUint32 seals a 32-bit unsigned value for import under the given
// binding. It runs on the submitting client, never inside a transaction.
func EncryptUint32(engineKey []byte, value uint32, binding confidential.ContextBinding) (confidential.ExternalCiphertext, confidential.Proof, error) {
	plaintext := make([]byte, 4)
	binary.BigEndian.PutUint32(plaintext, value)
	external, err := seal(engineKey, plaintext, binding)
	if err != nil {
		return nil, nil, err
	}
	return external, ComputeProof([]confidential.ExternalCiphertext{external}, binding), nil
}

// EncryptBytes seals a free-text payload byte-by-byte for import under the
// given binding, producing one ciphertext per byte and a single shared proof.
func EncryptBytes(engineKey []byte, data []byte, binding confidential.ContextBinding) ([]confidential.ExternalCiphertext, confidential.Proof, error) {
	externals := make([]confidential.ExternalCiphertext, 0, len(data))
	for _, b := range data {
		external, err := seal(engineKey, []byte{b}, binding)
		if err != nil {
			return nil, nil, err
		}
		externals = append(externals, external)
	}
	return externals, ComputeProof(externals, binding), nil
}

// DecodeUint32 recovers the integer value from a decrypted weight plaintext.
func DecodeUint32(plaintext []byte) (uint32, error) {
	if len(plaintext) != 4 {
		custom_err := &custom_errors.LengthCheckingError{Type: "weight plaintext"}
		return 0, errors.WithStack(custom_err)
	}
	return binary.BigEndian.Uint32(plaintext), nil
}

func seal(engineKey []byte, plaintext []byte, binding confidential.ContextBinding) ([]byte, error) {
	aead, err := chacha20poly1305.New(engineKey)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to construct cipher")
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "Failed to generate nonce")
	}
	return aead.Seal(nonce, nonce, plaintext, bindingBytes(binding)), nil
}
