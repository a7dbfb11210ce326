// Package avatar derives display avatars for wallet addresses.
package avatar

import "net/url"

const fallbackBase = "https://api.dicebear.com/7.x/initials/svg"

// URL returns stored when set, otherwise a deterministic initials avatar seeded
// by the address.
func URL(address, stored string) string {
	if stored != "" {
		return stored
	}

	q := url.Values{}
	q.Set("seed", address)
	q.Set("backgroundColor", "1da1f2,000000,657786")
	q.Set("backgroundType", "solid")
	q.Set("fontFamily", "Helvetica,Arial")
	q.Set("fontWeight", "600")
	return fallbackBase + "?" + q.Encode()
}
