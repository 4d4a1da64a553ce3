package solana

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
)

// TransactionErrorKey names a transaction level failure, as reported in the
// "err" field of signature statuses and preflight simulations.
type TransactionErrorKey string

const (
	TransactionErrorAccountInUse            TransactionErrorKey = "AccountInUse"
	TransactionErrorAccountNotFound         TransactionErrorKey = "AccountNotFound"
	TransactionErrorInsufficientFundsForFee TransactionErrorKey = "InsufficientFundsForFee"
	TransactionErrorAlreadyProcessed        TransactionErrorKey = "AlreadyProcessed"
	TransactionErrorBlockhashNotFound       TransactionErrorKey = "BlockhashNotFound"
	TransactionErrorInstructionError        TransactionErrorKey = "InstructionError"
	TransactionErrorSignatureFailure        TransactionErrorKey = "SignatureFailure"
)

// InstructionErrorKey names the failure of a single instruction.
type InstructionErrorKey string

const (
	InstructionErrorInvalidArgument          InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData   InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInsufficientFunds        InstructionErrorKey = "InsufficientFunds"
	InstructionErrorIncorrectProgramID       InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorCustom                   InstructionErrorKey = "Custom"
)

// CustomError is a program specific error code. Anchor programs start their
// own codes at 6000.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: 0x%x", int(c))
}

// InstructionError is the failure of the instruction at Index.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) Unwrap() error {
	return i.Err
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	switch {
	case i.Err == nil:
		return ""
	case i.CustomError() != nil:
		return InstructionErrorCustom
	default:
		return InstructionErrorKey(i.Err.Error())
	}
}

func (i InstructionError) CustomError() *CustomError {
	var ce CustomError
	if errors.As(i.Err, &ce) {
		return &ce
	}
	return nil
}

// TransactionError is a failed transaction, either from its signature status
// or from a rejected preflight simulation.
type TransactionError struct {
	key         TransactionErrorKey
	instruction *InstructionError

	// Logs holds the program logs of a failed preflight simulation.
	Logs []string
}

func NewTransactionError(key TransactionErrorKey) *TransactionError {
	return &TransactionError{key: key}
}

// NewInstructionTransactionError is the error reported when the instruction
// at index failed with err.
func NewInstructionTransactionError(index int, err error) *TransactionError {
	return &TransactionError{
		key:         TransactionErrorInstructionError,
		instruction: &InstructionError{Index: index, Err: err},
	}
}

func (t TransactionError) Error() string {
	if t.instruction != nil {
		return t.instruction.Error()
	}
	return string(t.key)
}

func (t TransactionError) ErrorKey() TransactionErrorKey {
	return t.key
}

func (t TransactionError) InstructionError() *InstructionError {
	return t.instruction
}

// MarshalJSON encodes the error the way RPC nodes report it.
func (t TransactionError) MarshalJSON() ([]byte, error) {
	if t.instruction == nil {
		return json.Marshal(string(t.key))
	}

	var detail interface{} = t.instruction.Err.Error()
	if ce := t.instruction.CustomError(); ce != nil {
		detail = map[string]int{string(InstructionErrorCustom): int(*ce)}
	}
	return json.Marshal(map[string][]interface{}{
		string(TransactionErrorInstructionError): {t.instruction.Index, detail},
	})
}

// IsBlockhashNotFound reports whether err is a transaction error caused by an
// expired or unknown recent blockhash.
func IsBlockhashNotFound(err error) bool {
	var txErr *TransactionError
	return errors.As(err, &txErr) && txErr.key == TransactionErrorBlockhashNotFound
}

// ParseRPCError extracts the transaction error carried by a failed RPC call.
// A nil result with a nil error means there wasn't one.
func ParseRPCError(err *jsonrpc.RPCError) (*TransactionError, error) {
	if err == nil {
		return nil, nil
	}

	data, ok := err.Data.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("unexpected rpc error data: %T", err.Data)
	}

	parsed, parseErr := ParseTransactionError(data["err"])
	if parsed == nil {
		return nil, parseErr
	}

	logs, _ := data["logs"].([]interface{})
	for _, line := range logs {
		if s, ok := line.(string); ok {
			parsed.Logs = append(parsed.Logs, s)
		}
	}
	return parsed, parseErr
}

// ParseTransactionError decodes an "err" value, which is either a bare key or
// a single entry object keyed by the error name. A partially understood error
// is still returned alongside the parse error.
func ParseTransactionError(raw interface{}) (*TransactionError, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return NewTransactionError(TransactionErrorKey(v)), nil
	case map[string]interface{}:
		key, detail, err := singleEntry(v)
		if err != nil {
			return NewTransactionError("unhandled transaction error"), err
		}
		if key != string(TransactionErrorInstructionError) {
			return NewTransactionError(TransactionErrorKey(key)), nil
		}

		ixErr, err := parseInstructionError(detail)
		if err != nil {
			return NewTransactionError("unhandled transaction error"), errors.Wrap(err, "failed to parse instruction error")
		}
		return &TransactionError{key: TransactionErrorInstructionError, instruction: ixErr}, nil
	default:
		return nil, errors.Errorf("unhandled error type: %T", raw)
	}
}

// parseInstructionError decodes the [index, error] tuple of an InstructionError.
func parseInstructionError(raw interface{}) (*InstructionError, error) {
	tuple, ok := raw.([]interface{})
	if !ok || len(tuple) != 2 {
		return nil, errors.Errorf("expected [index, error] tuple, got %v", raw)
	}

	index, err := parseJSONNumber(tuple[0])
	if err != nil {
		return nil, err
	}

	switch v := tuple[1].(type) {
	case string:
		return &InstructionError{Index: index, Err: errors.New(v)}, nil
	case map[string]interface{}:
		key, detail, err := singleEntry(v)
		if err != nil {
			return nil, err
		}
		if key != string(InstructionErrorCustom) {
			return &InstructionError{Index: index, Err: errors.New(key)}, nil
		}

		code, err := parseJSONNumber(detail)
		if err != nil {
			return nil, errors.Wrap(err, "invalid custom error code")
		}
		return &InstructionError{Index: index, Err: CustomError(code)}, nil
	default:
		return nil, errors.Errorf("unexpected instruction error value: %T", v)
	}
}

func singleEntry(m map[string]interface{}) (string, interface{}, error) {
	if len(m) != 1 {
		return "", nil, errors.Errorf("expected a single entry, got %d", len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}

// parseJSONNumber accepts the numeric forms produced by the different json
// decoding modes.
func parseJSONNumber(v interface{}) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return int(i), errors.Wrapf(err, "invalid number %q", n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return int(i), errors.Wrapf(err, "invalid number %q", n)
	case float64:
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, errors.Errorf("non numeric value: %v", v)
}
