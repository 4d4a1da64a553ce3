package localization

const (
	//
	// Section: Donation errors
	//

	ErrorConfig       = "error.donation.config"
	ErrorValidation   = "error.donation.validation"
	ErrorNetwork      = "error.donation.network"
	ErrorUserRejected = "error.donation.userRejected"
	ErrorSigner       = "error.donation.signer"
	ErrorProgram      = "error.donation.program"
	ErrorUnknown      = "error.donation.unknown"

	//
	// Section: Request errors
	//

	ErrorCampaignNotFound  = "error.request.campaignNotFound"
	ErrorMilestoneNotFound = "error.request.milestoneNotFound"
	ErrorNotCreator        = "error.request.notCreator"
	ErrorInvalidRequest    = "error.request.invalid"
	ErrorRateLimited       = "error.request.rateLimited"
	ErrorDuplicateDonation = "error.request.duplicateDonation"
	ErrorTargetNotReached  = "error.request.targetNotReached"
	ErrorAlreadyCompleted  = "error.request.alreadyCompleted"

	//
	// Section: Donations
	//

	DonationSent = "subtitle.donation.sent"
)
