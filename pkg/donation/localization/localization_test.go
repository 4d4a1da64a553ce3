package localization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLocalizeKey(t *testing.T) {
	actual, err := LocalizeKey(language.English, ErrorUserRejected)
	require.NoError(t, err)
	assert.Equal(t, "You declined the transaction in your wallet.", actual)

	actual, err = LocalizeKey(language.Spanish, ErrorUserRejected)
	require.NoError(t, err)
	assert.Equal(t, "Rechazaste la transacción en tu billetera.", actual)

	// Unsupported locales fall back to English
	actual, err = LocalizeKey(language.Japanese, ErrorUserRejected)
	require.NoError(t, err)
	assert.Equal(t, "You declined the transaction in your wallet.", actual)

	_, err = LocalizeKey(language.English, "error.unknown.key")
	assert.Error(t, err)
}

func TestLocalizeKey_AllKeysTranslated(t *testing.T) {
	for _, key := range []string{
		ErrorConfig,
		ErrorValidation,
		ErrorNetwork,
		ErrorUserRejected,
		ErrorSigner,
		ErrorProgram,
		ErrorUnknown,
		ErrorCampaignNotFound,
		ErrorMilestoneNotFound,
		ErrorNotCreator,
		ErrorInvalidRequest,
		ErrorRateLimited,
		ErrorDuplicateDonation,
		ErrorTargetNotReached,
		ErrorAlreadyCompleted,
	} {
		english, err := LocalizeKey(language.English, key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, english)

		spanish, err := LocalizeKey(language.Spanish, key)
		require.NoError(t, err, key)
		assert.NotEqual(t, english, spanish, key)
	}
}

func TestLocalizeKeyWithData(t *testing.T) {
	actual, err := LocalizeKeyWithData(language.English, DonationSent, map[string]interface{}{
		"Amount":   "1.5 SOL",
		"Campaign": "Community Garden",
	})
	require.NoError(t, err)
	assert.Equal(t, "You donated 1.5 SOL to Community Garden", actual)
}

func TestLocaleFromAcceptLanguage(t *testing.T) {
	for _, tc := range []struct {
		header   string
		expected language.Tag
	}{
		{"", language.English},
		{"garbage;;;", language.English},
		{"en-US,en;q=0.9", language.English},
		{"es-MX,es;q=0.9,en;q=0.8", language.Spanish},
		{"ja", language.English},
	} {
		assert.Equal(t, tc.expected, LocaleFromAcceptLanguage(tc.header), tc.header)
	}
}

func TestFormatSol(t *testing.T) {
	assert.Equal(t, "0 SOL", FormatSol(language.English, 0))
	assert.Equal(t, "1.5 SOL", FormatSol(language.English, 1_500_000_000))
	assert.Equal(t, "0.000000001 SOL", FormatSol(language.English, 1))
	assert.Equal(t, "1,234 SOL", FormatSol(language.English, 1_234_000_000_000))
}

func TestIsRtlScript(t *testing.T) {
	assert.True(t, isRtlScript(language.Arabic))
	assert.True(t, isRtlScript(language.Hebrew))
	assert.False(t, isRtlScript(language.English))
	assert.False(t, isRtlScript(language.Spanish))

	assert.True(t, isDefaultLocale(language.English))
	assert.False(t, isDefaultLocale(language.Spanish))
}
