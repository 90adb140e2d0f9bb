package domain

var MessageFailedGetIngredients = "failed to get ingredients"

type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}
