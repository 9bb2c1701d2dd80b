package handlers

import "github.com/awrgmu/mixcheckin/core"

// Check-in responses are an entry-tagged union: Allow carries the parsed
// identity and completion history, Disallow carries the raw upstream HTML
// (usually containing an error message). The raw HTML is omitted from
// Allow on purpose.
type allowResponse struct {
	Entry     string               `json:"entry"`
	Name      string               `json:"name"`
	MemberID  int                  `json:"member_id"`
	Workshops []core.TakenWorkshop `json:"workshops"`
}

type disallowResponse struct {
	Entry string `json:"entry"`
	HTML  string `json:"html"`
}

type CreateWorkshopForm struct {
	Name string `form:"name" binding:"required"`
}
