// Package urlrewrite builds the final redirect target for a short link by
// merging its UTM fields and custom parameters into the stored destination.
package urlrewrite

import (
	"errors"
	"net/url"

	"github.com/linkdeck/linkdeck/internal/app/model"
)

// ErrInvalidDestination reports a stored destination URL that is not an
// absolute URL. Destinations are validated at creation time, so hitting this
// at redirect time means the stored row is corrupt; the redirect is aborted
// rather than sending the client to a malformed or relative target.
var ErrInvalidDestination = errors.New("destination is not an absolute URL")

// Build parses the link's destination URL, sets each non-empty UTM field as
// its utm_* query parameter (overwriting any existing value, single value per
// key) and then each custom parameter whose key and value are both non-empty
// (later duplicates overwrite earlier ones). Returns the serialized URL.
func Build(link *model.Link) (string, error) {
	u, err := url.Parse(link.DestinationURL)
	if err != nil {
		return "", ErrInvalidDestination
	}
	if !u.IsAbs() || u.Host == "" {
		return "", ErrInvalidDestination
	}

	q := u.Query()

	setUTM(q, "utm_source", link.UTMSource)
	setUTM(q, "utm_medium", link.UTMMedium)
	setUTM(q, "utm_campaign", link.UTMCampaign)
	setUTM(q, "utm_term", link.UTMTerm)
	setUTM(q, "utm_content", link.UTMContent)

	for _, p := range link.CustomParams {
		if p.Key == "" || p.Value == "" {
			continue
		}
		q.Set(p.Key, p.Value)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

func setUTM(q url.Values, name string, value *string) {
	if value == nil || *value == "" {
		return
	}
	q.Set(name, *value)
}
