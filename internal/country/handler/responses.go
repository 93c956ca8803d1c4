package handler

import "countryapi/internal/country/models"

// RefreshResponse wraps the merged records written by a refresh.
type RefreshResponse struct {
	Data []models.Country `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func toRefreshResponse(result *models.RefreshResult) RefreshResponse {
	data := result.Countries
	if data == nil {
		data = []models.Country{}
	}
	return RefreshResponse{Data: data}
}
