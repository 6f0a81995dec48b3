package gmaps

const (
	mapsHomeURL   = "https://www.google.com/maps"
	searchBoxID   = "#searchboxinput"
	searchBaseURL = "https://www.google.com/maps/search/"
)

// consentButtons are tried in order; text, when set, is matched against the
// button's visible label.
var consentButtons = []struct {
	selector string
	text     string
}{
	{`button[aria-label="Accept all"]`, ""},
	{`button`, "Accept all"},
	{`button`, "I agree"},
	{`button[id*="accept"]`, ""},
	{`button[class*="accept"]`, ""},
}

// resultsReady signal that the search results have rendered.
var resultsReady = []string{
	`div[role="feed"]`,
	`div[role="main"] div[role="feed"]`,
	`[data-value="Directions"]`,
	`div[role="article"]`,
}

// feedContainers are the scrollable sidebar candidates.
var feedContainers = []string{
	`div[role="feed"]`,
	`div[role="main"] div[role="feed"]`,
	`div[jsaction*="pane.result-item"]`,
}
