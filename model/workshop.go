package model

type Workshop struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

func (Workshop) TableName() string {
	return "workshops"
}
