package dto

type GeocodeRequest struct {
	Query string `json:"query"`
}
