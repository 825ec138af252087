package factcheck

// Claim is the first claim returned for a query.
type Claim struct {
	Text      string `json:"text"`
	Rating    string `json:"rating"`
	Claimant  string `json:"claimant,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	URL       string `json:"url,omitempty"`
}

// searchResponse mirrors the claims:search payload. Pointers tell a missing
// field apart from an empty one.
type searchResponse struct {
	Claims []struct {
		Text        *string `json:"text"`
		Claimant    string  `json:"claimant"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string  `json:"url"`
			Title         string  `json:"title"`
			TextualRating *string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
	NextPageToken string `json:"nextPageToken"`
}
