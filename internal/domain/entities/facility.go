package entities

import (
	"time"
)

// Facility representa uma unidade física avaliada em campo (clínica, posto de saúde, etc.)
type Facility struct {
	ID           int64     `json:"id" gorm:"primaryKey;column:id"`
	Name         string    `json:"name" gorm:"column:name;index:idx_facilities_name"`
	FacilityType string    `json:"facility_type" gorm:"column:facility_type"`
	Address      string    `json:"address" gorm:"column:address"`
	LGA          string    `json:"lga" gorm:"column:lga"`
	State        string    `json:"state" gorm:"column:state"`
	ContactName  string    `json:"contact_name" gorm:"column:contact_name"`
	ContactPhone string    `json:"contact_phone" gorm:"column:contact_phone"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`

	// Relações
	Surveys []Survey `json:"surveys,omitempty" gorm:"foreignKey:FacilityID"`
}
