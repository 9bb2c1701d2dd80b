package core

// Policy decides whether a visitor gets in, checked in order: Atrium's own
// eligible verdict, then the duplicate-swipe denial code (Atrium denies a
// second swipe inside its rate window, which is not a real ineligibility),
// then the alumnus allow-list.
type Policy struct {
	DuplicateSwipeCode string
	alumni             map[int]struct{}
}

func NewPolicy(duplicateSwipeCode string, alumni []int) *Policy {
	set := make(map[int]struct{}, len(alumni))
	for _, id := range alumni {
		set[id] = struct{}{}
	}
	return &Policy{DuplicateSwipeCode: duplicateSwipeCode, alumni: set}
}

func (p *Policy) Admit(eligible bool, code string, memberID int) bool {
	if eligible {
		return true
	}
	if code == p.DuplicateSwipeCode {
		return true
	}
	if _, ok := p.alumni[memberID]; ok {
		return true
	}
	return false
}
