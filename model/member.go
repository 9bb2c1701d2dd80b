package model

// Member is a makerspace visitor keyed by their campus membership number.
// Rows are created on first successful check-in lookup and never deleted.
type Member struct {
	ID      int  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	IsStaff bool `json:"is_staff"`
}

func (Member) TableName() string {
	return "members"
}
