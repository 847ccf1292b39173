/*******************************************************************************
 *
 *
 * (c) Copyright Merative US L.P. and others 2020-2022
 *
 * SPDX-Licence-Identifier: Apache 2.0
 *
 *******************************************************************************/

package test_utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	minUnicodeRuneValue   = 0            // U+0000
	maxUnicodeRuneValue   = utf8.MaxRune // U+10FFFF
	compositeKeyNamespace = "\x00"
)

// MockStub is an in-memory implementation of shim.ChaincodeStubInterface for
// unit tests. Unlike the upstream mock, it supports a settable transaction
// timestamp, which the record store depends on for its global clock.
type MockStub struct {
	Name      string
	State     map[string][]byte
	TxID      string
	Timestamp int64
	Transient map[string][]byte

	// ChaincodeEvents records every SetEvent call by name, in order.
	ChaincodeEvents []MockChaincodeEvent

	args        [][]byte
	decorations map[string][]byte
}

// MockChaincodeEvent is one recorded SetEvent call.
type MockChaincodeEvent struct {
	Name    string
	Payload []byte
}

// CreateMockStub returns an empty MockStub with a random transaction ID.
func CreateMockStub() *MockStub {
	return &MockStub{
		Name:        "mockStub",
		State:       make(map[string][]byte),
		TxID:        GenerateRandomTxID(),
		Transient:   make(map[string][]byte),
		decorations: make(map[string][]byte),
	}
}

// MockTransactionStart begins a new transaction with the given ID, clearing
// per-transaction state such as the recorded events.
func (stub *MockStub) MockTransactionStart(txid string) {
	stub.TxID = txid
	stub.ChaincodeEvents = nil
}

// SetArgs sets the invocation arguments returned by GetArgs and friends.
func (stub *MockStub) SetArgs(args [][]byte) {
	stub.args = args
}

// SetTransient replaces the transient map.
func (stub *MockStub) SetTransient(tmap map[string][]byte) {
	if tmap == nil {
		tmap = make(map[string][]byte)
	}
	stub.Transient = tmap
}

// LastEvent returns the most recent SetEvent call, or nil if none happened.
func (stub *MockStub) LastEvent() *MockChaincodeEvent {
	if len(stub.ChaincodeEvents) == 0 {
		return nil
	}
	return &stub.ChaincodeEvents[len(stub.ChaincodeEvents)-1]
}

func (stub *MockStub) GetArgs() [][]byte {
	return stub.args
}

func (stub *MockStub) GetStringArgs() []string {
	args := stub.GetArgs()
	strargs := make([]string, 0, len(args))
	for _, barg := range args {
		strargs = append(strargs, string(barg))
	}
	return strargs
}

func (stub *MockStub) GetFunctionAndParameters() (function string, params []string) {
	allargs := stub.GetStringArgs()
	function = ""
	params = []string{}
	if len(allargs) >= 1 {
		function = allargs[0]
		params = allargs[1:]
	}
	return
}

func (stub *MockStub) GetArgsSlice() ([]byte, error) {
	argsSlice := []byte{}
	for _, barg := range stub.GetArgs() {
		argsSlice = append(argsSlice, barg...)
	}
	return argsSlice, nil
}

func (stub *MockStub) GetTxID() string {
	return stub.TxID
}

func (stub *MockStub) GetChannelID() string {
	return "mockChannel"
}

func (stub *MockStub) InvokeChaincode(chaincodeName string, args [][]byte, channel string) pb.Response {
	return pb.Response{Status: shim.ERROR, Message: "InvokeChaincode not implemented"}
}

func (stub *MockStub) GetState(key string) ([]byte, error) {
	value := stub.State[key]
	return copyBytes(value), nil
}

func (stub *MockStub) PutState(key string, value []byte) error {
	if len(key) == 0 {
		return errors.New("key must not be an empty string")
	}
	stub.State[key] = copyBytes(value)
	return nil
}

func (stub *MockStub) DelState(key string) error {
	delete(stub.State, key)
	return nil
}

func (stub *MockStub) SetStateValidationParameter(key string, ep []byte) error {
	return nil
}

func (stub *MockStub) GetStateValidationParameter(key string) ([]byte, error) {
	return nil, nil
}

func (stub *MockStub) GetStateByRange(startKey, endKey string) (shim.StateQueryIteratorInterface, error) {
	return newMockIterator(stub, startKey, endKey), nil
}

func (stub *MockStub) GetStateByRangeWithPagination(startKey, endKey string, pageSize int32, bookmark string) (shim.StateQueryIteratorInterface, *pb.QueryResponseMetadata, error) {
	return nil, nil, errors.New("GetStateByRangeWithPagination not implemented")
}

func (stub *MockStub) GetStateByPartialCompositeKey(objectType string, attributes []string) (shim.StateQueryIteratorInterface, error) {
	partialCompositeKey, err := stub.CreateCompositeKey(objectType, attributes)
	if err != nil {
		return nil, err
	}
	return newMockIterator(stub, partialCompositeKey, partialCompositeKey+string(rune(maxUnicodeRuneValue))), nil
}

func (stub *MockStub) GetStateByPartialCompositeKeyWithPagination(objectType string, keys []string, pageSize int32, bookmark string) (shim.StateQueryIteratorInterface, *pb.QueryResponseMetadata, error) {
	return nil, nil, errors.New("GetStateByPartialCompositeKeyWithPagination not implemented")
}

func (stub *MockStub) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	var builder strings.Builder
	builder.WriteString(compositeKeyNamespace)
	builder.WriteString(objectType)
	builder.WriteRune(rune(minUnicodeRuneValue))
	for _, attribute := range attributes {
		builder.WriteString(attribute)
		builder.WriteRune(rune(minUnicodeRuneValue))
	}
	return builder.String(), nil
}

func (stub *MockStub) SplitCompositeKey(compositeKey string) (string, []string, error) {
	componentIndex := 1
	components := []string{}
	for i := 1; i < len(compositeKey); i++ {
		if compositeKey[i] == byte(minUnicodeRuneValue) {
			components = append(components, compositeKey[componentIndex:i])
			componentIndex = i + 1
		}
	}
	if len(components) < 1 {
		return "", nil, fmt.Errorf("invalid composite key %v", compositeKey)
	}
	return components[0], components[1:], nil
}

func (stub *MockStub) GetQueryResult(query string) (shim.StateQueryIteratorInterface, error) {
	return nil, errors.New("GetQueryResult not implemented")
}

func (stub *MockStub) GetQueryResultWithPagination(query string, pageSize int32, bookmark string) (shim.StateQueryIteratorInterface, *pb.QueryResponseMetadata, error) {
	return nil, nil, errors.New("GetQueryResultWithPagination not implemented")
}

func (stub *MockStub) GetHistoryForKey(key string) (shim.HistoryQueryIteratorInterface, error) {
	return nil, errors.New("GetHistoryForKey not implemented")
}

func (stub *MockStub) GetPrivateData(collection, key string) ([]byte, error) {
	return nil, errors.New("GetPrivateData not implemented")
}

func (stub *MockStub) GetPrivateDataHash(collection, key string) ([]byte, error) {
	return nil, errors.New("GetPrivateDataHash not implemented")
}

func (stub *MockStub) PutPrivateData(collection string, key string, value []byte) error {
	return errors.New("PutPrivateData not implemented")
}

func (stub *MockStub) DelPrivateData(collection, key string) error {
	return errors.New("DelPrivateData not implemented")
}

func (stub *MockStub) PurgePrivateData(collection, key string) error {
	return errors.New("PurgePrivateData not implemented")
}

func (stub *MockStub) SetPrivateDataValidationParameter(collection, key string, ep []byte) error {
	return errors.New("SetPrivateDataValidationParameter not implemented")
}

func (stub *MockStub) GetPrivateDataValidationParameter(collection, key string) ([]byte, error) {
	return nil, errors.New("GetPrivateDataValidationParameter not implemented")
}

func (stub *MockStub) GetPrivateDataByRange(collection, startKey, endKey string) (shim.StateQueryIteratorInterface, error) {
	return nil, errors.New("GetPrivateDataByRange not implemented")
}

func (stub *MockStub) GetPrivateDataByPartialCompositeKey(collection, objectType string, keys []string) (shim.StateQueryIteratorInterface, error) {
	return nil, errors.New("GetPrivateDataByPartialCompositeKey not implemented")
}

func (stub *MockStub) GetPrivateDataQueryResult(collection, query string) (shim.StateQueryIteratorInterface, error) {
	return nil, errors.New("GetPrivateDataQueryResult not implemented")
}

func (stub *MockStub) GetCreator() ([]byte, error) {
	return nil, nil
}

func (stub *MockStub) GetTransient() (map[string][]byte, error) {
	return stub.Transient, nil
}

func (stub *MockStub) GetBinding() ([]byte, error) {
	return nil, nil
}

func (stub *MockStub) GetDecorations() map[string][]byte {
	return stub.decorations
}

func (stub *MockStub) GetSignedProposal() (*pb.SignedProposal, error) {
	return nil, nil
}

func (stub *MockStub) GetTxTimestamp() (*timestamppb.Timestamp, error) {
	return &timestamppb.Timestamp{Seconds: stub.Timestamp}, nil
}

func (stub *MockStub) SetEvent(name string, payload []byte) error {
	if len(name) == 0 {
		return errors.New("event name can not be nil string")
	}
	stub.ChaincodeEvents = append(stub.ChaincodeEvents, MockChaincodeEvent{Name: name, Payload: copyBytes(payload)})
	return nil
}

func copyBytes(value []byte) []byte {
	if value == nil {
		return nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied
}

// mockIterator iterates a sorted snapshot of the stub's state over
// [startKey, endKey).
type mockIterator struct {
	stub     *MockStub
	keys     []string
	position int
}

func newMockIterator(stub *MockStub, startKey string, endKey string) *mockIterator {
	keys := make([]string, 0)
	for key := range stub.State {
		if key >= startKey && key < endKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return &mockIterator{stub: stub, keys: keys}
}

func (iter *mockIterator) HasNext() bool {
	return iter.position < len(iter.keys)
}

func (iter *mockIterator) Next() (*queryresult.KV, error) {
	if !iter.HasNext() {
		return nil, errors.New("mockIterator.Next() called when it does not HaveNext()")
	}
	key := iter.keys[iter.position]
	iter.position++
	return &queryresult.KV{Key: key, Value: copyBytes(iter.stub.State[key])}, nil
}

func (iter *mockIterator) Close() error {
	return nil
}
