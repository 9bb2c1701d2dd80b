package v1

import "encoding/json"

// Eligibility is Atrium's verdict attached to a detailed lookup response.
type Eligibility struct {
	Code     string `json:"code"`
	Eligible bool   `json:"eligible"`
}

// LookupResult is the decoded form of a basic_search response. Atrium
// returns one of two shapes with no discriminator: a detailed payload
// carrying the member card HTML plus an eligibility verdict, or a terse
// {success, message} object. Detailed reports which shape was present.
type LookupResult struct {
	Success     bool
	Detailed    bool
	HTML        string
	Eligibility Eligibility
	Message     string
}

const logOutMessage = "log_out"

// SessionExpired reports whether this response is Atrium's signal that the
// backing session is no longer authenticated.
func (r *LookupResult) SessionExpired() bool {
	return !r.Detailed && !r.Success && r.Message == logOutMessage
}

type lookupPayload struct {
	Success     bool         `json:"success"`
	HTML        *string      `json:"html"`
	Eligibility *Eligibility `json:"eligibility"`
	Message     *string      `json:"message"`
}

// decodeLookup tries the richer shape first: the payload is detailed only
// when both html and eligibility are present.
func decodeLookup(data []byte) (*LookupResult, error) {
	var p lookupPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.HTML != nil && p.Eligibility != nil {
		return &LookupResult{
			Success:     p.Success,
			Detailed:    true,
			HTML:        *p.HTML,
			Eligibility: *p.Eligibility,
		}, nil
	}
	result := &LookupResult{Success: p.Success}
	if p.Message != nil {
		result.Message = *p.Message
	}
	return result, nil
}
