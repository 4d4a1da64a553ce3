package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/donation/campaign"
	"github.com/solfund/solfund-server/pkg/donation/localization"
	"github.com/solfund/solfund-server/pkg/donation/transaction"
	"github.com/solfund/solfund-server/pkg/sol"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
	"github.com/solfund/solfund-server/pkg/solana/memo"
)

const (
	successJsonKey = "success"
	errorJsonKey   = "error"
	reasonJsonKey  = "reason"
)

var (
	errRateLimited    = errors.New("rate limited")
	errInvalidRequest = errors.New("invalid request")
)

type GenericApiResponseBody map[string]any

func NewGenericApiSuccessResponseBody() GenericApiResponseBody {
	return map[string]any{
		successJsonKey: true,
	}
}

func NewGenericApiFailureResponseBody(err error) GenericApiResponseBody {
	return map[string]any{
		successJsonKey: false,
		errorJsonKey:   err.Error(),
	}
}

func (b *GenericApiResponseBody) ToString() string {
	marshalled, _ := json.Marshal(b)
	return string(marshalled)
}

// HandleErrorInWebContext maps a service error to an HTTP status code and a
// failure body carrying a message localized for the request.
func HandleErrorInWebContext(locale language.Tag, err error) (int, GenericApiResponseBody) {
	statusCode, key := classifyError(err)

	message, localizeErr := localization.LocalizeKey(locale, key)
	if localizeErr != nil {
		message = http.StatusText(statusCode)
	}

	body := NewGenericApiFailureResponseBody(errors.New(message))
	if statusCode < http.StatusInternalServerError {
		body[reasonJsonKey] = err.Error()
	}
	return statusCode, body
}

func classifyError(err error) (int, string) {
	switch transaction.KindOf(err) {
	case transaction.KindConfig:
		return http.StatusServiceUnavailable, localization.ErrorConfig
	case transaction.KindValidation:
		return http.StatusBadRequest, localization.ErrorValidation
	case transaction.KindNetwork:
		return http.StatusBadGateway, localization.ErrorNetwork
	case transaction.KindUserRejected:
		return http.StatusBadRequest, localization.ErrorUserRejected
	case transaction.KindSigner:
		return http.StatusBadRequest, localization.ErrorSigner
	case transaction.KindProgram:
		return http.StatusUnprocessableEntity, localization.ErrorProgram
	}

	switch {
	case errors.Is(err, directdonation.ErrDiscriminatorNotFound):
		return http.StatusServiceUnavailable, localization.ErrorConfig
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, localization.ErrorRateLimited
	case errors.Is(err, campaign.ErrCampaignNotFound):
		return http.StatusNotFound, localization.ErrorCampaignNotFound
	case errors.Is(err, campaign.ErrMilestoneNotFound):
		return http.StatusNotFound, localization.ErrorMilestoneNotFound
	case errors.Is(err, campaign.ErrNotCampaignCreator):
		return http.StatusForbidden, localization.ErrorNotCreator
	case errors.Is(err, campaign.ErrDonationExists):
		return http.StatusConflict, localization.ErrorDuplicateDonation
	case errors.Is(err, campaign.ErrMilestoneAlreadyCompleted):
		return http.StatusConflict, localization.ErrorAlreadyCompleted
	case errors.Is(err, campaign.ErrMilestoneTargetNotReached):
		return http.StatusConflict, localization.ErrorTargetNotReached
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, campaign.ErrInvalidCampaign),
		errors.Is(err, campaign.ErrInvalidMilestone),
		errors.Is(err, campaign.ErrInvalidCreatorWallet),
		errors.Is(err, campaign.ErrInvalidFilter),
		errors.Is(err, campaign.ErrCreatorMismatch),
		errors.Is(err, sol.ErrInvalidAmount),
		errors.Is(err, sol.ErrAmountPrecision),
		errors.Is(err, sol.ErrAmountOverflow),
		errors.Is(err, solana.ErrInvalidPublicKey),
		errors.Is(err, directdonation.ErrInvalidAmount),
		errors.Is(err, directdonation.ErrInvalidProgram),
		errors.Is(err, directdonation.ErrInvalidInstructionData),
		errors.Is(err, directdonation.ErrInvalidAccounts),
		errors.Is(err, memo.ErrMemoTooLong),
		errors.Is(err, memo.ErrInvalidMemo),
		errors.Is(err, query.ErrQueryNotSupported):
		return http.StatusBadRequest, localization.ErrorInvalidRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, localization.ErrorNetwork
	}

	return http.StatusInternalServerError, localization.ErrorUnknown
}

func invalidRequest(format string, args ...any) error {
	return errors.Wrapf(errInvalidRequest, format, args...)
}
