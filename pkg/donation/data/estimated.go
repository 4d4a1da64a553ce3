package data

import (
	"context"
	"errors"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/solfund/solfund-server/pkg/metrics"
)

const (
	estimatedProviderMetricsName = "data.estimated_provider"
)

var (
	maxEstimatedSignatures        = 1000000
	maxEstimatedSignaturesErrRate = 0.01
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
)

// EstimatedData answers membership questions with false positives but no
// false negatives. A negative answer can skip a database round trip.
type EstimatedData interface {
	// Donation Signatures
	// --------------------------------------------------------------------------------

	TestForKnownSignature(ctx context.Context, signature []byte) (bool, error)
	AddKnownSignature(ctx context.Context, signature []byte) error
}

type EstimatedProvider struct {
	knownSignatures *bloom.BloomFilter
}

func NewEstimatedProvider() (EstimatedData, error) {
	filter := bloom.NewWithEstimates(uint(maxEstimatedSignatures), maxEstimatedSignaturesErrRate)

	return &EstimatedProvider{
		knownSignatures: filter,
	}, nil
}

// Donation Signatures
// --------------------------------------------------------------------------------

func (p *EstimatedProvider) TestForKnownSignature(ctx context.Context, signature []byte) (bool, error) {
	tracer := metrics.TraceMethodCall(ctx, estimatedProviderMetricsName, "TestForKnownSignature")
	defer tracer.End()

	if len(signature) == 0 {
		return false, ErrInvalidSignature
	}
	return p.knownSignatures.Test(signature), nil
}

func (p *EstimatedProvider) AddKnownSignature(ctx context.Context, signature []byte) error {
	tracer := metrics.TraceMethodCall(ctx, estimatedProviderMetricsName, "AddKnownSignature")
	defer tracer.End()

	if len(signature) == 0 {
		return ErrInvalidSignature
	}
	p.knownSignatures.Add(signature)
	return nil
}
