package leads

// CSS selectors for map-search listing cards.
const (
	ListingSelector = `div[role="article"]`

	NameHeadingSelector  = `h3`
	NameHeadlineSelector = `div.fontHeadlineSmall`

	StarsSelector   = `span[aria-label*="stars"], span[aria-label*="star"]`
	ReviewsSelector = `span.UY7F9`

	WebsiteAuthoritySelector = `a[data-item-id*="authority"]`
	WebsiteLabelSelector     = `a[aria-label*="Website"]`
	WebsiteButtonSelector    = `a.l_52kX7B1Y__button`
	OutboundLinkSelector     = `a[href^="http"]`
	WebsiteRetrySelector     = WebsiteAuthoritySelector + `, ` + WebsiteLabelSelector

	// PlaceLinkSelector is the card's own link to its place page.
	PlaceLinkSelector = `a.hfpxzc`
)
