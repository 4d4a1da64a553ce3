package solana

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureStatus(t *testing.T) {
	zero, one := 0, 1

	testCases := []struct {
		s         SignatureStatus
		confirmed bool
		finalized bool
	}{
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: "",
			},
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: "random",
			},
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusProcessed,
			},
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &one,
				ConfirmationStatus: "",
			},
			confirmed: true,
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusConfirmed,
			},
			confirmed: true,
		},
		{
			s: SignatureStatus{
				Slot:               10,
				ErrorResult:        nil,
				Confirmations:      &zero,
				ConfirmationStatus: confirmationStatusFinalized,
			},
			confirmed: true,
			finalized: true,
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.confirmed, tc.s.Confirmed())
		assert.Equal(t, tc.finalized, tc.s.Finalized())
		assert.Equal(t, tc.confirmed, tc.s.Reached(CommitmentConfirmed))
		assert.Equal(t, tc.finalized, tc.s.Reached(CommitmentFinalized))
		assert.True(t, tc.s.Reached(CommitmentProcessed))
	}
}

func TestCommitmentFromString(t *testing.T) {
	for _, c := range []Commitment{CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized} {
		actual, err := CommitmentFromString(c.Commitment)
		require.NoError(t, err)
		assert.Equal(t, c, actual)
	}

	_, err := CommitmentFromString("max")
	assert.Error(t, err)
}

type rpcRequest struct {
	ID     int               `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcHandler func(params []json.RawMessage) (result interface{}, rpcErr map[string]interface{})

type testRPCServer struct {
	sync.Mutex
	handlers map[string]rpcHandler
	requests []rpcRequest
}

func newTestRPCServer(t *testing.T, handlers map[string]rpcHandler) (*testRPCServer, Client) {
	s := &testRPCServer{handlers: handlers}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.Lock()
		s.requests = append(s.requests, req)
		handler, ok := s.handlers[req.Method]
		s.Unlock()

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}
		if !ok {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		} else if result, rpcErr := handler(req.Params); rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	return s, New(server.URL)
}

func (s *testRPCServer) lastRequest(method string) *rpcRequest {
	s.Lock()
	defer s.Unlock()

	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Method == method {
			return &s.requests[i]
		}
	}
	return nil
}

func TestClient_GetLatestBlockhash(t *testing.T) {
	hashes := []Blockhash{{1}, {2}}
	var calls int

	server, client := newTestRPCServer(t, map[string]rpcHandler{
		"getLatestBlockhash": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			hash := hashes[calls%len(hashes)]
			calls++
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 10},
				"value": map[string]interface{}{
					"blockhash":            base58.Encode(hash[:]),
					"lastValidBlockHeight": 100,
				},
			}, nil
		},
	})

	first, err := client.GetLatestBlockhash(CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, hashes[0], first)

	// Never served from a cache
	second, err := client.GetLatestBlockhash(CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, hashes[1], second)

	req := server.lastRequest("getLatestBlockhash")
	require.NotNil(t, req)
	require.Len(t, req.Params, 1)
	assert.JSONEq(t, `{"commitment":"confirmed"}`, string(req.Params[0]))
}

func TestClient_SubmitTransaction(t *testing.T) {
	keys := generateKeys(t, 2)
	tx := NewTransaction(public(keys[0]), NewInstruction(public(keys[1]), []byte{1}))
	tx.SetBlockhash(Blockhash{7})
	require.NoError(t, tx.Sign(keys[0]))

	_, client := newTestRPCServer(t, nil)
	_, err := client.SubmitTransaction(NewTransaction(public(keys[0])), SubmitOptions{})
	assert.ErrorIs(t, err, ErrMissingSignature)

	server, client := newTestRPCServer(t, map[string]rpcHandler{
		"sendTransaction": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			return tx.Signature().String(), nil
		},
	})

	sig, err := client.SubmitTransaction(tx, SubmitOptions{PreflightCommitment: CommitmentConfirmed})
	require.NoError(t, err)
	assert.Equal(t, tx.Signature(), sig)

	req := server.lastRequest("sendTransaction")
	require.NotNil(t, req)
	require.Len(t, req.Params, 2)

	var encoded string
	require.NoError(t, json.Unmarshal(req.Params[0], &encoded))
	assert.Equal(t, tx.ToBase64(), encoded)
	assert.JSONEq(t, `{"encoding":"base64","skipPreflight":false,"preflightCommitment":"confirmed"}`, string(req.Params[1]))
}

func TestClient_SubmitTransaction_PreflightFailure(t *testing.T) {
	keys := generateKeys(t, 2)
	tx := NewTransaction(public(keys[0]), NewInstruction(public(keys[1]), []byte{1}))
	require.NoError(t, tx.Sign(keys[0]))

	_, client := newTestRPCServer(t, map[string]rpcHandler{
		"sendTransaction": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			return nil, map[string]interface{}{
				"code":    -32002,
				"message": "Transaction simulation failed: Blockhash not found",
				"data": map[string]interface{}{
					"err":  "BlockhashNotFound",
					"logs": []string{},
				},
			}
		},
	})

	sig, err := client.SubmitTransaction(tx, SubmitOptions{})
	require.Error(t, err)
	assert.Equal(t, tx.Signature(), sig)
	assert.True(t, IsBlockhashNotFound(err))

	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, TransactionErrorBlockhashNotFound, txErr.ErrorKey())
}

func TestClient_GetSignatureStatus(t *testing.T) {
	var sig Signature
	sig[0] = 1

	responses := [][]interface{}{
		{nil},
		{map[string]interface{}{"slot": 5, "confirmations": 0, "confirmationStatus": "processed", "err": nil}},
		{map[string]interface{}{"slot": 5, "confirmations": 1, "confirmationStatus": "confirmed", "err": nil}},
	}
	var calls int

	_, client := newTestRPCServer(t, map[string]rpcHandler{
		"getSignatureStatuses": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			resp := responses[calls]
			if calls < len(responses)-1 {
				calls++
			}
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 5},
				"value":   resp,
			}, nil
		},
	})

	status, err := client.GetSignatureStatus(sig, CommitmentConfirmed)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.Confirmed())
	assert.Nil(t, status.ErrorResult)
	assert.EqualValues(t, 5, status.Slot)
}

func TestClient_GetSignatureStatuses_Failed(t *testing.T) {
	_, client := newTestRPCServer(t, map[string]rpcHandler{
		"getSignatureStatuses": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 5},
				"value": []interface{}{
					map[string]interface{}{
						"slot":               5,
						"confirmations":      nil,
						"confirmationStatus": "finalized",
						"err":                map[string]interface{}{"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 1}}},
					},
					nil,
				},
			}, nil
		},
	})

	statuses, err := client.GetSignatureStatuses([]Signature{{1}, {2}})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.NotNil(t, statuses[0])
	require.NotNil(t, statuses[0].ErrorResult)
	assert.Equal(t, CustomError(1), *statuses[0].ErrorResult.InstructionError().CustomError())
	assert.True(t, statuses[0].Finalized())
	assert.Nil(t, statuses[1])
}

func TestClient_GetBalance(t *testing.T) {
	keys := generateKeys(t, 2)
	funded, unknown := public(keys[0]), public(keys[1])

	_, client := newTestRPCServer(t, map[string]rpcHandler{
		"getBalance": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			var account string
			_ = json.Unmarshal(params[0], &account)
			if account != base58.Encode(funded) {
				return nil, map[string]interface{}{"code": -32602, "message": "Invalid param: could not find account"}
			}
			return map[string]interface{}{
				"context": map[string]interface{}{"slot": 5},
				"value":   1_500_000_000,
			}, nil
		},
	})

	balance, err := client.GetBalance(funded, CommitmentConfirmed)
	require.NoError(t, err)
	assert.EqualValues(t, 1_500_000_000, balance)

	_, err = client.GetBalance(unknown, CommitmentConfirmed)
	assert.Equal(t, ErrNoBalance, err)
}

func TestClient_RequestAirdrop(t *testing.T) {
	sig := Signature{9, 9, 9}
	server, client := newTestRPCServer(t, map[string]rpcHandler{
		"requestAirdrop": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			return sig.String(), nil
		},
	})

	keys := generateKeys(t, 1)
	actual, err := client.RequestAirdrop(public(keys[0]), 1_000_000_000, CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, sig, actual)

	req := server.lastRequest("requestAirdrop")
	require.NotNil(t, req)
	require.Len(t, req.Params, 3)
	assert.Equal(t, "1000000000", string(req.Params[1]))
}

func TestClient_ServiceErrorsAreRetried(t *testing.T) {
	var calls int
	_, client := newTestRPCServer(t, map[string]rpcHandler{
		"getLatestBlockhash": func(params []json.RawMessage) (interface{}, map[string]interface{}) {
			calls++
			if calls == 1 {
				return nil, map[string]interface{}{"code": -32005, "message": "Node is unhealthy"}
			}
			hash := Blockhash{3}
			return map[string]interface{}{
				"value": map[string]interface{}{"blockhash": hash.String(), "lastValidBlockHeight": 1},
			}, nil
		},
	})

	hash, err := client.GetLatestBlockhash(CommitmentFinalized)
	require.NoError(t, err)
	assert.Equal(t, Blockhash{3}, hash)
	assert.Equal(t, 2, calls)
}
