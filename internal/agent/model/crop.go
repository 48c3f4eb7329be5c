package model

import "strings"

// Crop is an entry of the static crop catalog.
type Crop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Crops is the static catalog offered on the capture screen, in display order.
var Crops = []Crop{
	{ID: "tomato", Name: "Tomato", Icon: "🍅"},
	{ID: "potato", Name: "Potato", Icon: "🥔"},
	{ID: "wheat", Name: "Wheat", Icon: "🌾"},
	{ID: "rice", Name: "Rice", Icon: "🍚"},
	{ID: "maize", Name: "Maize", Icon: "🌽"},
	{ID: "cotton", Name: "Cotton", Icon: "☁️"},
	{ID: "sugarcane", Name: "Sugarcane", Icon: "🎋"},
	{ID: "chilli", Name: "Chilli", Icon: "🌶️"},
	{ID: "soybean", Name: "Soybean", Icon: "🫘"},
	{ID: "grape", Name: "Grape", Icon: "🍇"},
	{ID: "mango", Name: "Mango", Icon: "🥭"},
	{ID: "banana", Name: "Banana", Icon: "🍌"},
}

// CropByID looks a crop up by id, case-insensitively.
func CropByID(id string) (Crop, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range Crops {
		if c.ID == id {
			return c, true
		}
	}
	return Crop{}, false
}
