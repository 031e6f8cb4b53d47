package restaurantapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawRestaurant is one restaurant as the remote API sends it. Every field may
// be missing or null and several have alternate keys; normalization into
// entities.Restaurant happens in the restaurants adapter.
type RawRestaurant struct {
	BusinessID     *string            `json:"business_id"`
	ID             *string            `json:"id"`
	Name           *string            `json:"name"`
	Rating         *FlexFloat         `json:"rating"`
	Price          *FlexString        `json:"price"`
	Phone          *string            `json:"phone"`
	Location       *RawLocation       `json:"location"`
	Coordinates    *RawCoordinates    `json:"coordinates"`
	Photos         []string           `json:"photos"`
	ImageURL       *string            `json:"image_url"`
	Categories     []RawCategory      `json:"categories"`
	IsOpen         *bool              `json:"is_open"`
	IsClosed       *bool              `json:"is_closed"`
	OperatingHours *RawOperatingHours `json:"operating_hours"`
}

// RawLocation is the postal address sub-object
type RawLocation struct {
	Address1       *string  `json:"address1"`
	Address2       *string  `json:"address2"`
	Address3       *string  `json:"address3"`
	City           *string  `json:"city"`
	State          *string  `json:"state"`
	ZipCode        *string  `json:"zip_code"`
	Country        *string  `json:"country"`
	DisplayAddress []string `json:"display_address"`
}

// RawCoordinates is the geographic position sub-object
type RawCoordinates struct {
	Latitude  *FlexFloat `json:"latitude"`
	Longitude *FlexFloat `json:"longitude"`
}

// RawOperatingHours is the verified-hours sub-object
type RawOperatingHours struct {
	TimeOpen        *string `json:"time_open"`
	TimeClosed      *string `json:"time_closed"`
	IsHoursVerified *bool   `json:"is_hours_verified"`
	IsConsenting    *bool   `json:"is_consenting"`
	IsOpen          *bool   `json:"is_open"`
}

// RawCategory is a category tag. Both {"alias","title"} objects and bare
// strings are accepted.
type RawCategory struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

func (c *RawCategory) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.Title = s
		return nil
	}
	type plain RawCategory
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = RawCategory(p)
	return nil
}

// FlexFloat decodes a JSON number or a numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexString decodes a JSON string, number or bool into its text form.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(string(data))
	return nil
}

// restaurantList decodes either a bare JSON array or an object wrapping the
// array under one of the keys the API has used.
type restaurantList []RawRestaurant

func (l *restaurantList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = restaurantList{}
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []RawRestaurant
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	for _, key := range []string{"restaurants", "businesses", "data", "results"} {
		if raw, ok := wrapped[key]; ok {
			var items []RawRestaurant
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("decode %q: %w", key, err)
			}
			*l = items
			return nil
		}
	}
	return fmt.Errorf("response holds no restaurant list")
}

// VerifyResponse is the acknowledgement of an hours verification request
type VerifyResponse struct {
	Status string `json:"status"`
	CallID string `json:"call_id"`
}
