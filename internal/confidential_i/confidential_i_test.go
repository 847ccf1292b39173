/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package confidential_i

import (
	"strconv"
	"testing"

	"github.com/JenniferSaul/secure-cargo-flow/custom_errors"
	"github.com/JenniferSaul/secure-cargo-flow/data_model"
	"github.com/JenniferSaul/secure-cargo-flow/internal/global"
	"github.com/JenniferSaul/secure-cargo-flow/test_utils"

	"github.com/pkg/errors"
)

// fakeService records admissions and grants in memory.
type fakeService struct {
	admitted int
	grants   map[string][]string
	bindings []ContextBinding
}

func newFakeService() *fakeService {
	return &fakeService{grants: make(map[string][]string)}
}

func (service *fakeService) VerifyAndAdmit(external ExternalCiphertext, proof Proof, binding ContextBinding) (data_model.CipherHandle, error) {
	handles, err := service.VerifyAndAdmitBatch([]ExternalCiphertext{external}, proof, binding)
	if err != nil {
		return "", err
	}
	return handles[0], nil
}

func (service *fakeService) VerifyAndAdmitBatch(externals []ExternalCiphertext, proof Proof, binding ContextBinding) ([]data_model.CipherHandle, error) {
	if string(proof) == "bad" {
		return nil, errors.WithStack(&custom_errors.ProofVerificationError{Reason: "bad proof"})
	}
	service.bindings = append(service.bindings, binding)
	handles := make([]data_model.CipherHandle, 0, len(externals))
	for range externals {
		service.admitted++
		handles = append(handles, data_model.CipherHandle("fhe:"+strconv.Itoa(service.admitted)))
	}
	return handles, nil
}

func (service *fakeService) GrantDecryptCapability(handle data_model.CipherHandle, holder string) error {
	service.grants[string(handle)] = append(service.grants[string(handle)], holder)
	return nil
}

func (service *fakeService) HasDecryptCapability(handle data_model.CipherHandle, holder string) (bool, error) {
	for _, granted := range service.grants[string(handle)] {
		if granted == holder {
			return true, nil
		}
	}
	return false, nil
}

func (service *fakeService) DecryptOnBehalfOf(handle data_model.CipherHandle, holder string, authorization []byte, validUntil int64) ([]byte, error) {
	return nil, errors.New("not used in this test")
}

func TestImportWeightGrantsPair(t *testing.T) {
	service := newFakeService()
	importer := GetImporter(service, "CARGO-001", test_utils.CreateTestCaller("carrier1"))

	handle, err := importer.ImportWeight([]byte("ciphertext"), []byte("ok"))
	test_utils.AssertNilError(t, err, "expected import to succeed")
	test_utils.AssertFalse(t, handle.IsEmpty(), "expected a handle")

	test_utils.AssertInLists(t, global.RECORD_STORE_ID, service.grants[string(handle)], "expected a record store grant")
	test_utils.AssertInLists(t, "carrier1", service.grants[string(handle)], "expected a submitter grant")

	binding := service.bindings[0]
	test_utils.AssertStringsEqual(t, "CARGO-001", binding.TrackingId, "expected the shipment in the binding")
	test_utils.AssertStringsEqual(t, "carrier1", binding.Submitter, "expected the submitter in the binding")
	test_utils.AssertStringsEqual(t, KindUint32, binding.Kind, "expected the weight kind")
}

func TestImportWeightBadProof(t *testing.T) {
	service := newFakeService()
	importer := GetImporter(service, "CARGO-001", test_utils.CreateTestCaller("carrier1"))

	_, err := importer.ImportWeight([]byte("ciphertext"), []byte("bad"))
	test_utils.AssertNotNilError(t, err, "expected a bad proof to fail")
	_, ok := errors.Cause(err).(*custom_errors.ProofVerificationError)
	test_utils.AssertTrue(t, ok, "expected ProofVerificationError")
	test_utils.AssertIntsEqual(t, 0, service.admitted, "expected nothing to be admitted")
}

func TestImportContents(t *testing.T) {
	service := newFakeService()
	importer := GetImporter(service, "CARGO-001", test_utils.CreateTestCaller("carrier1"))

	externals := []ExternalCiphertext{[]byte("a"), []byte("b"), []byte("c")}
	handles, err := importer.ImportContents(externals, []byte("ok"), 0)
	test_utils.AssertNilError(t, err, "expected import to succeed")
	test_utils.AssertIntsEqual(t, 3, len(handles), "expected one handle per ciphertext")
	test_utils.AssertStringsEqual(t, KindByte, service.bindings[0].Kind, "expected the byte kind")

	for _, handle := range handles {
		test_utils.AssertInLists(t, "carrier1", service.grants[string(handle)], "expected a submitter grant per handle")
	}
}

func TestImportContentsLengthChecks(t *testing.T) {
	service := newFakeService()
	importer := GetImporter(service, "CARGO-001", test_utils.CreateTestCaller("carrier1"))

	_, err := importer.ImportContents(nil, []byte("ok"), 0)
	test_utils.AssertNotNilError(t, err, "expected an empty batch to fail")

	tooLong := make([]ExternalCiphertext, global.DEFAULT_MAX_CONTENTS_LENGTH+1)
	for i := range tooLong {
		tooLong[i] = []byte{byte(i)}
	}
	_, err = importer.ImportContents(tooLong, []byte("ok"), 0)
	test_utils.AssertNotNilError(t, err, "expected an oversized batch to fail")
	_, ok := errors.Cause(err).(*custom_errors.ProofVerificationError)
	test_utils.AssertTrue(t, ok, "expected ProofVerificationError")
	test_utils.AssertIntsEqual(t, 0, service.admitted, "expected nothing to be admitted")
}

func TestCarryForwardWeight(t *testing.T) {
	service := newFakeService()
	importer := GetImporter(service, "CARGO-001", test_utils.CreateTestCaller("carrier1"))

	test_utils.AssertTrue(t, importer.CarryForwardWeight(nil).IsEmpty(), "expected no handle without prior events")

	prior := []data_model.CargoEvent{
		{EventId: 0, EncryptedWeight: "fhe:first"},
		{EventId: 1, EncryptedWeight: "fhe:second"},
	}
	carried := importer.CarryForwardWeight(prior)
	test_utils.AssertStringsEqual(t, "fhe:first", string(carried), "expected the first event's handle")
	test_utils.AssertIntsEqual(t, 0, service.admitted, "expected no re-import")
}
