package solana

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/solfund/solfund-server/pkg/retry"
	"github.com/solfund/solfund-server/pkg/retry/backoff"
)

const (
	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005
	rpcInvalidParamCode  = -32602
	httpTooManyRequests  = 429
)

var (
	errRateLimited  = errors.New("rate limited")
	errServiceError = errors.New("service error")
)

// rpc is a JSON RPC transport that retries calls the node failed to serve,
// leaving request level errors to the caller.
type rpc struct {
	log     *logrus.Entry
	client  jsonrpc.RPCClient
	retrier retry.Retrier
}

func newRPC(endpoint string, opts *jsonrpc.RPCClientOpts) *rpc {
	return &rpc{
		log:    logrus.StandardLogger().WithField("type", "solana/rpc"),
		client: jsonrpc.NewClientWithOpts(endpoint, opts),
		retrier: retry.NewRetrier(
			retry.RetriableErrors(errRateLimited, errServiceError),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

// call decodes the result of method into out. Errors that are specific to the
// request come back as the original *jsonrpc.RPCError.
func (r *rpc) call(out interface{}, method string, params ...interface{}) error {
	_, err := r.retrier.Retry(func() error {
		return r.classify(method, r.client.CallFor(out, method, params...))
	})
	return err
}

func (r *rpc) classify(method string, err error) error {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}

	log := r.log.WithField("method", method)
	switch {
	case rpcErr.Code == httpTooManyRequests:
		log.Warn("rate limited")
		return errRateLimited
	case rpcErr.Code >= 500 || rpcErr.Code == rpcNodeUnhealthyCode:
		log.WithError(rpcErr).Warn("rpc service error")
		return errors.Wrap(errServiceError, rpcErr.Message)
	default:
		return rpcErr
	}
}

func rpcErrorCode(err error) (int, bool) {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code, true
	}
	return 0, false
}
