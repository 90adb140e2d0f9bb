package entities

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:64;index;not null" json:"name"`
	MeasurementUnit string `gorm:"size:16;not null" json:"measurement_unit"`
}
