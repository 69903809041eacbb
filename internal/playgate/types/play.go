package types

// Play is the wire shape of the current play record.  Field names match
// the stored JSON so clients and the store stay in sync.
type Play struct {
	ImageBase64 string `json:"imageBase64,omitempty"`
	GameTime    string `json:"gameTime"`
	Title       string `json:"title"`
	UpdatedAt   string `json:"updatedAt"`
}

// PublishRequest is the admin write payload.
type PublishRequest struct {
	ImageBase64 string `json:"imageBase64"`
	GameTime    string `json:"gameTime"`
	Title       string `json:"title,omitempty"`
}

// Countdown is the remaining time until game start, decomposed for display.
type Countdown struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Access reports the caller's entitlement as resolved for this request.
type Access struct {
	Authenticated bool `json:"authenticated"`
	HasAccess     bool `json:"hasAccess"`
}

// PlayResponse is the public read model: the record (or null), the derived
// visibility state, and the countdown when one applies.
type PlayResponse struct {
	Play      *Play      `json:"play"`
	State     string     `json:"state"`
	Countdown *Countdown `json:"countdown,omitempty"`
	Access    Access     `json:"access"`
}

// PublishResponse acknowledges an admin write or delete.
type PublishResponse struct {
	Success   bool   `json:"success"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ScanRequest asks the image-understanding collaborator to read a slip.
type ScanRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// ScanResult is the advisory extraction returned by the slip scanner.
// Every field is best-effort; the admin can override any of it before
// publishing.
type ScanResult struct {
	Title       string `json:"title"`
	Matchup     string `json:"matchup"`
	BetType     string `json:"betType"`
	Odds        string `json:"odds"`
	GameTime    string `json:"gameTime"`
	Description string `json:"description"`
}

// ScanResponse wraps a scan result for the admin endpoint.
type ScanResponse struct {
	Success bool       `json:"success"`
	Data    ScanResult `json:"data"`
}
