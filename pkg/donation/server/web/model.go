package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/solfund/solfund-server/pkg/database/query"
	campaign_data "github.com/solfund/solfund-server/pkg/donation/data/campaign"
	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
	"github.com/solfund/solfund-server/pkg/sol"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/memo"
)

const (
	maxRequestBodySize = 64 * 1024

	defaultHistoryPageSize = 50
	maxHistoryPageSize     = 100
)

type createCampaignRequest struct {
	campaign   *campaign_data.Record
	milestones []*milestone.Record
}

func newCreateCampaignRequestFromHttpContext(r *http.Request) (*createCampaignRequest, error) {
	httpRequestBody := struct {
		Creator     string `json:"creator"`
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageUrl    string `json:"imageUrl"`
		GoalSol     string `json:"goalSol"`
		WebsiteUrl  string `json:"websiteUrl"`
		XUrl        string `json:"xUrl"`
		TelegramUrl string `json:"telegramUrl"`
		Milestones  []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			TargetSol   string `json:"targetSol"`
		} `json:"milestones"`
	}{}

	if err := readJsonBody(r, &httpRequestBody); err != nil {
		return nil, err
	}

	goal, err := sol.StrToLamports(httpRequestBody.GoalSol)
	if err != nil {
		return nil, err
	}

	res := &createCampaignRequest{
		campaign: &campaign_data.Record{
			CreatorWallet: strings.TrimSpace(httpRequestBody.Creator),
			Title:         strings.TrimSpace(httpRequestBody.Title),
			Description:   strings.TrimSpace(httpRequestBody.Description),
			ImageUrl:      strings.TrimSpace(httpRequestBody.ImageUrl),
			GoalLamports:  goal,
			WebsiteUrl:    strings.TrimSpace(httpRequestBody.WebsiteUrl),
			XUrl:          strings.TrimSpace(httpRequestBody.XUrl),
			TelegramUrl:   strings.TrimSpace(httpRequestBody.TelegramUrl),
		},
	}

	for i, m := range httpRequestBody.Milestones {
		target, err := sol.StrToLamports(m.TargetSol)
		if err != nil {
			return nil, invalidRequest("milestone %d: %s", i, err.Error())
		}

		res.milestones = append(res.milestones, &milestone.Record{
			Title:          strings.TrimSpace(m.Title),
			Description:    strings.TrimSpace(m.Description),
			TargetLamports: target,
		})
	}

	return res, nil
}

type completeMilestoneRequest struct {
	milestoneId string
	requester   string
}

func newCompleteMilestoneRequestFromHttpContext(r *http.Request) (*completeMilestoneRequest, error) {
	httpRequestBody := struct {
		MilestoneId string `json:"milestoneId"`
		Requester   string `json:"requester"`
	}{}

	if err := readJsonBody(r, &httpRequestBody); err != nil {
		return nil, err
	}

	if len(httpRequestBody.MilestoneId) == 0 {
		return nil, invalidRequest("milestone id is required")
	}

	requester, err := solana.ParsePublicKey(httpRequestBody.Requester)
	if err != nil {
		return nil, invalidRequest("requester is not a public key")
	}

	return &completeMilestoneRequest{
		milestoneId: httpRequestBody.MilestoneId,
		requester:   base58.Encode(requester),
	}, nil
}

type prepareDonationRequest struct {
	campaignId string
	donor      []byte
	amount     uint64
	memo       string
}

func newPrepareDonationRequestFromHttpContext(r *http.Request) (*prepareDonationRequest, error) {
	httpRequestBody := struct {
		CampaignId string `json:"campaignId"`
		Donor      string `json:"donor"`
		AmountSol  string `json:"amountSol"`
		Memo       string `json:"memo"`
	}{}

	if err := readJsonBody(r, &httpRequestBody); err != nil {
		return nil, err
	}

	if len(httpRequestBody.CampaignId) == 0 {
		return nil, invalidRequest("campaign id is required")
	}

	donor, err := solana.ParsePublicKey(httpRequestBody.Donor)
	if err != nil {
		return nil, invalidRequest("donor is not a public key")
	}

	amount, err := sol.StrToLamports(httpRequestBody.AmountSol)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, invalidRequest("amount must be positive")
	}

	if err := memo.Validate(httpRequestBody.Memo); err != nil {
		return nil, invalidRequest("%s", err.Error())
	}

	return &prepareDonationRequest{
		campaignId: httpRequestBody.CampaignId,
		donor:      donor,
		amount:     amount,
		memo:       httpRequestBody.Memo,
	}, nil
}

type submitDonationRequest struct {
	campaignId string
	txn        solana.Transaction
}

func newSubmitDonationRequestFromHttpContext(r *http.Request) (*submitDonationRequest, error) {
	httpRequestBody := struct {
		CampaignId  string `json:"campaignId"`
		Transaction string `json:"transaction"`
	}{}

	if err := readJsonBody(r, &httpRequestBody); err != nil {
		return nil, err
	}

	if len(httpRequestBody.CampaignId) == 0 {
		return nil, invalidRequest("campaign id is required")
	}

	txn, err := solana.TransactionFromBase64(httpRequestBody.Transaction)
	if err != nil {
		return nil, invalidRequest("transaction is invalid: %s", err.Error())
	}

	return &submitDonationRequest{
		campaignId: httpRequestBody.CampaignId,
		txn:        txn,
	}, nil
}

func readJsonBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize+1))
	if err != nil {
		return err
	}
	if len(body) > maxRequestBodySize {
		return invalidRequest("request body too large")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return invalidRequest("malformed json: %s", err.Error())
	}
	return nil
}

type donorHistoryRequest struct {
	donor string
	limit uint64
	opts  []query.Option
}

func newDonorHistoryRequestFromHttpContext(r *http.Request) (*donorHistoryRequest, error) {
	params := r.URL.Query()

	donor := params.Get("donor")
	if _, err := solana.ParsePublicKey(donor); err != nil {
		return nil, invalidRequest("donor is not a public key")
	}

	limit := uint64(defaultHistoryPageSize)
	if raw := params.Get("limit"); len(raw) > 0 {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 || parsed > maxHistoryPageSize {
			return nil, invalidRequest("limit must be between 1 and %d", maxHistoryPageSize)
		}
		limit = parsed
	}

	opts := []query.Option{query.WithLimit(limit)}

	if raw := params.Get("order"); len(raw) > 0 {
		direction, err := query.ToOrdering(raw)
		if err != nil {
			return nil, invalidRequest("order must be asc or desc")
		}
		opts = append(opts, query.WithDirection(direction))
	}

	if raw := params.Get("cursor"); len(raw) > 0 {
		cursor, err := query.CursorFromBase58(raw)
		if err != nil {
			return nil, invalidRequest("invalid cursor")
		}
		opts = append(opts, query.WithCursor(cursor))
	}

	return &donorHistoryRequest{
		donor: donor,
		limit: limit,
		opts:  opts,
	}, nil
}
