package v1

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrExtraction means the member card HTML did not contain the identity
// markers this service scrapes.
var ErrExtraction = errors.New("identity extraction failed")

// Identity is what gets scraped out of the member card HTML.
type Identity struct {
	Name     string
	MemberID int
}

const (
	nameElementID = "person_name"
	memberIDClass = "campus_id"
)

// ExtractIdentity pulls the visitor's display name and membership id out of
// the member card fragment Atrium returns. The markup is not a contract, so
// matching goes by the person_name id and campus_id class rather than by
// position, and the id is taken from the first direct text child of the
// campus_id element that parses as a non-negative integer.
func ExtractIdentity(fragment string) (*Identity, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrExtraction, err)
	}

	nameSel := doc.Find("#" + nameElementID)
	if nameSel.Length() == 0 {
		return nil, fmt.Errorf("%w: no #%s element", ErrExtraction, nameElementID)
	}
	name := strings.TrimSpace(nameSel.First().Text())

	idSel := doc.Find("." + memberIDClass)
	if idSel.Length() == 0 {
		return nil, fmt.Errorf("%w: no .%s element", ErrExtraction, memberIDClass)
	}

	memberID := -1
	idSel.First().Contents().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		node := s.Get(0)
		if node.Type != html.TextNode {
			return true
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(node.Data))
		if err != nil || parsed < 0 {
			return true
		}
		memberID = parsed
		return false
	})
	if memberID < 0 {
		return nil, fmt.Errorf("%w: no integer id among .%s text nodes", ErrExtraction, memberIDClass)
	}

	return &Identity{Name: name, MemberID: memberID}, nil
}
