package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vacameet/vaca-meet-api/internal/models"
)

type DestinationsResponse struct {
	Destinations []models.Destination `json:"destinations"`
	Count        int                  `json:"count"`
	Message      string               `json:"message"`
}

type VerifyPasswordRequest struct {
	DestinationID *FlexID `json:"destinationId"`
	Password      *string `json:"password"`
}

type VerifyPasswordResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type ActivitiesResponse struct {
	Activities []models.ActivityView `json:"activities"`
}

// FlexID decodes an identifier sent either as a JSON number or a numeric string,
// since select widgets on the client hand back strings.
type FlexID int64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %s: %w", data, err)
	}
	*f = FlexID(n)
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(f))
}
