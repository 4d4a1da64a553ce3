package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/donation/campaign"
	donation_config "github.com/solfund/solfund-server/pkg/donation/config"
	"github.com/solfund/solfund-server/pkg/donation/localization"
	"github.com/solfund/solfund-server/pkg/donation/transaction"
	rate_limiter "github.com/solfund/solfund-server/pkg/rate"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/sync"
)

const (
	v1PathPrefix              = "/v1"
	v1CampaignsPath           = v1PathPrefix + "/campaigns"
	v1CampaignPath            = v1PathPrefix + "/campaign"
	v1CompleteMilestonePath   = v1PathPrefix + "/milestone/complete"
	v1PrepareDonationPath     = v1PathPrefix + "/donation/prepare"
	v1SubmitDonationPath      = v1PathPrefix + "/donation/submit"
	v1GetDonationsByDonorPath = v1PathPrefix + "/donations"

	contentTypeHeaderName      = "content-type"
	jsonContentTypeHeaderValue = "application/json"
	acceptLanguageHeaderName   = "accept-language"
)

type Server struct {
	log  *logrus.Entry
	conf *conf

	campaigns *campaign.Service
	submitter *transaction.Submitter
	settings  *donation_config.Settings

	submitLimiter rate_limiter.Limiter
	donorLocks    *sync.StripedLock
}

func NewServer(
	campaigns *campaign.Service,
	submitter *transaction.Submitter,
	settings *donation_config.Settings,
	configProvider ConfigProvider,
) *Server {
	conf := configProvider()

	return &Server{
		log:  logrus.StandardLogger().WithField("type", "donation/server/web"),
		conf: conf,

		campaigns: campaigns,
		submitter: submitter,
		settings:  settings,

		submitLimiter: rate_limiter.NewLocalRateLimiter(rate.Limit(conf.submitRateLimit.Get(context.Background()))),
		donorLocks:    sync.NewStripedLock(1024),
	}
}

func (s *Server) campaignsHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithFields(logrus.Fields{
			"path":   path,
			"method": r.Method,
		})
		locale := localization.LocaleFromAcceptLanguage(r.Header.Get(acceptLanguageHeaderName))

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			switch r.Method {
			case http.MethodGet:
				params := r.URL.Query()

				filter, err := campaign.ParseFilter(params.Get("filter"))
				if err != nil {
					return HandleErrorInWebContext(locale, err)
				}

				creator := params.Get("creator")
				if len(creator) > 0 {
					if _, err := solana.ParsePublicKey(creator); err != nil {
						return HandleErrorInWebContext(locale, invalidRequest("creator is not a public key"))
					}
				}

				summaries, err := s.campaigns.ListCampaigns(ctx, &campaign.ListOptions{
					Filter:  filter,
					Query:   params.Get("q"),
					Creator: creator,
				})
				if err != nil {
					log.WithError(err).Warn("failure listing campaigns")
					return HandleErrorInWebContext(locale, err)
				}

				shareBaseUrl := s.conf.shareBaseUrl.Get(ctx)
				views := make([]*campaignView, len(summaries))
				for i, summary := range summaries {
					views[i] = s.toCampaignView(locale, summary, shareBaseUrl)
				}

				respBody := NewGenericApiSuccessResponseBody()
				respBody["campaigns"] = views
				return http.StatusOK, respBody
			case http.MethodPost:
				req, err := newCreateCampaignRequestFromHttpContext(r)
				if err != nil {
					return HandleErrorInWebContext(locale, err)
				}

				err = s.campaigns.CreateCampaign(ctx, req.campaign, req.milestones)
				if err != nil {
					log.WithError(err).Info("failure creating campaign")
					return HandleErrorInWebContext(locale, err)
				}

				respBody := NewGenericApiSuccessResponseBody()
				respBody["campaign"] = s.toCampaignView(locale, &campaign.Summary{Campaign: req.campaign}, s.conf.shareBaseUrl.Get(ctx))
				respBody["milestones"] = toMilestoneViews(req.milestones)
				return http.StatusOK, respBody
			default:
				return http.StatusMethodNotAllowed, NewGenericApiFailureResponseBody(errors.New("http get or post expected"))
			}
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) getCampaignHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)
		locale := localization.LocaleFromAcceptLanguage(r.Header.Get(acceptLanguageHeaderName))

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodGet {
				return http.StatusMethodNotAllowed, NewGenericApiFailureResponseBody(errors.New("http get expected"))
			}

			campaignIdQueryParam := r.URL.Query()["id"]
			if len(campaignIdQueryParam) < 1 || len(campaignIdQueryParam[0]) == 0 {
				return HandleErrorInWebContext(locale, invalidRequest("id query parameter missing"))
			}
			log = log.WithField("campaign", campaignIdQueryParam[0])

			details, err := s.campaigns.GetCampaign(ctx, campaignIdQueryParam[0])
			if err != nil {
				if !errors.Is(err, campaign.ErrCampaignNotFound) {
					log.WithError(err).Warn("failure getting campaign")
				}
				return HandleErrorInWebContext(locale, err)
			}

			donations := make([]*donationView, len(details.Donations))
			for i, record := range details.Donations {
				donations[i] = toDonationView(record, details.Campaign.Title)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["campaign"] = s.toCampaignView(locale, &details.Summary, s.conf.shareBaseUrl.Get(ctx))
			respBody["milestones"] = toMilestoneViews(details.Milestones)
			respBody["donations"] = donations
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) completeMilestoneHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)
		locale := localization.LocaleFromAcceptLanguage(r.Header.Get(acceptLanguageHeaderName))

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodPost {
				return http.StatusMethodNotAllowed, NewGenericApiFailureResponseBody(errors.New("http post expected"))
			}

			req, err := newCompleteMilestoneRequestFromHttpContext(r)
			if err != nil {
				return HandleErrorInWebContext(locale, err)
			}
			log = log.WithFields(logrus.Fields{
				"milestone": req.milestoneId,
				"requester": req.requester,
			})

			err = s.campaigns.CompleteMilestone(ctx, req.milestoneId, req.requester)
			if err != nil {
				log.WithError(err).Info("failure completing milestone")
				return HandleErrorInWebContext(locale, err)
			}

			return http.StatusOK, NewGenericApiSuccessResponseBody()
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) prepareDonationHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)
		locale := localization.LocaleFromAcceptLanguage(r.Header.Get(acceptLanguageHeaderName))

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodPost {
				return http.StatusMethodNotAllowed, NewGenericApiFailureResponseBody(errors.New("http post expected"))
			}

			req, err := newPrepareDonationRequestFromHttpContext(r)
			if err != nil {
				return HandleErrorInWebContext(locale, err)
			}
			log = log.WithField("campaign", req.campaignId)

			prepared, err := s.prepareDonation(ctx, req)
			if err != nil {
				log.WithError(err).Info("failure preparing donation")
				return HandleErrorInWebContext(locale, err)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["transaction"] = prepared.txn.ToBase64()
			respBody["amountLamports"] = req.amount
			respBody["platformFeeLamports"] = prepared.platformFee
			respBody["totalCostLamports"] = prepared.totalCost
			respBody["totalCostDisplay"] = localization.FormatSol(locale, prepared.totalCost)
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) submitDonationHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)
		locale := localization.LocaleFromAcceptLanguage(r.Header.Get(acceptLanguageHeaderName))

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx, cancel := context.WithTimeout(r.Context(), s.conf.submitTimeout.Get(r.Context()))
			defer cancel()

			if r.Method != http.MethodPost {
				return http.StatusMethodNotAllowed, NewGenericApiFailureResponseBody(errors.New("http post expected"))
			}

			req, err := newSubmitDonationRequestFromHttpContext(r)
			if err != nil {
				return HandleErrorInWebContext(locale, err)
			}
			log = log.WithFields(logrus.Fields{
				"campaign":  req.campaignId,
				"signature": req.txn.Signature().String(),
			})

			submitted, err := s.submitDonation(ctx, req)
			if err != nil {
				log.WithError(err).Info("failure submitting donation")
				return HandleErrorInWebContext(locale, err)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["signature"] = submitted.record.Signature
			respBody["state"] = submitted.record.State.String()
			message, err := localization.LocalizeKeyWithData(locale, localization.DonationSent, map[string]interface{}{
				"Amount":   localization.FormatSol(locale, submitted.record.AmountLamports),
				"Campaign": submitted.campaignTitle,
			})
			if err == nil {
				respBody["message"] = message
			}
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) getDonationsByDonorHandler(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)
		locale := localization.LocaleFromAcceptLanguage(r.Header.Get(acceptLanguageHeaderName))

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != http.MethodGet {
				return http.StatusMethodNotAllowed, NewGenericApiFailureResponseBody(errors.New("http get expected"))
			}

			req, err := newDonorHistoryRequestFromHttpContext(r)
			if err != nil {
				return HandleErrorInWebContext(locale, err)
			}
			log = log.WithField("donor", req.donor)

			history, err := s.campaigns.GetDonationsByDonor(ctx, req.donor, req.opts...)
			if err != nil {
				log.WithError(err).Warn("failure getting donation history")
				return HandleErrorInWebContext(locale, err)
			}

			donations := make([]*donationView, len(history))
			for i, item := range history {
				donations[i] = toDonationView(item.Donation, item.CampaignTitle)
			}

			respBody := NewGenericApiSuccessResponseBody()
			respBody["donations"] = donations
			if uint64(len(history)) == req.limit {
				respBody["nextCursor"] = query.ToCursor(history[len(history)-1].Donation.Id).ToBase58()
			}
			return http.StatusOK, respBody
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Info("failed to write body")
		}
	}
}

func (s *Server) GetHandlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		v1CampaignsPath:           s.campaignsHandler(v1CampaignsPath),
		v1CampaignPath:            s.getCampaignHandler(v1CampaignPath),
		v1CompleteMilestonePath:   s.completeMilestoneHandler(v1CompleteMilestonePath),
		v1PrepareDonationPath:     s.prepareDonationHandler(v1PrepareDonationPath),
		v1SubmitDonationPath:      s.submitDonationHandler(v1SubmitDonationPath),
		v1GetDonationsByDonorPath: s.getDonationsByDonorHandler(v1GetDonationsByDonorPath),
	}
}
