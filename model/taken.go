package model

// Taken records one completion of a workshop by a member. The unique index
// on (member, workshop) is what makes duplicate recording a detectable
// failure rather than a second row.
type Taken struct {
	ID         string `json:"id" gorm:"primaryKey"`
	MemberID   int    `json:"member_id" gorm:"column:member;uniqueIndex:uniq_taken_member_workshop"`
	WorkshopID string `json:"workshop_id" gorm:"column:workshop;uniqueIndex:uniq_taken_member_workshop"`
}

func (Taken) TableName() string {
	return "taken"
}
