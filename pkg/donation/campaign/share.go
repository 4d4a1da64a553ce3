package campaign

import (
	"fmt"
	"net/url"
)

const (
	xIntentUrl = "https://twitter.com/intent/tweet"
)

// ShareLink builds the public link for a campaign page
func ShareLink(baseUrl, campaignId string) (string, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}

	q := parsed.Query()
	q.Set("campaign", campaignId)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// ShareOnXLink builds a tweet intent promoting the campaign
func ShareOnXLink(baseUrl, campaignId, title string) (string, error) {
	link, err := ShareLink(baseUrl, campaignId)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("text", fmt.Sprintf("Check out this campaign: %s", title))
	q.Set("url", link)
	return xIntentUrl + "?" + q.Encode(), nil
}
