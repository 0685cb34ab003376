package advisory

import (
	"fmt"
	"net/url"
	"strings"
)

const searchBaseURL = "https://www.google.com/search"

// BuildSearchURL constructs the outbound shopping-search link for a
// recommended shoe. No response is ever consumed from it, it is opened in
// the user's browser. Returns an error when the shoe name is blank.
func BuildSearchURL(shoe, shoeSize string) (*url.URL, error) {
	shoe = strings.TrimSpace(shoe)
	if shoe == "" {
		return nil, fmt.Errorf("no shoe selected")
	}

	u, err := url.Parse(searchBaseURL)
	if err != nil {
		return nil, err
	}

	query := shoe
	if size := strings.TrimSpace(shoeSize); size != "" {
		query += " " + size
	}
	query += " buy"

	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()
	return u, nil
}
