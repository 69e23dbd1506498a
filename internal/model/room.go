package model

type Room struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Icon            string  `json:"icon"`
	PointMultiplier float64 `json:"point_multiplier"`
	SortOrder       int     `json:"sort_order"`
	HAAreaID        *string `json:"ha_area_id"`
}

type RoomCreate struct {
	Name            string   `json:"name"`
	Icon            string   `json:"icon,omitempty"`
	PointMultiplier *float64 `json:"point_multiplier,omitempty"`
	SortOrder       *int     `json:"sort_order,omitempty"`
	HAAreaID        *string  `json:"ha_area_id,omitempty"`
}

type RoomUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Icon            *string  `json:"icon,omitempty"`
	PointMultiplier *float64 `json:"point_multiplier,omitempty"`
	SortOrder       *int     `json:"sort_order,omitempty"`
	HAAreaID        *string  `json:"ha_area_id,omitempty"`
}

// Area is a Home Assistant area pushed to the backend by a room sync.
type Area struct {
	AreaID string `json:"area_id"`
	Name   string `json:"name"`
}

type RoomSyncResult struct {
	Created  []Room   `json:"created"`
	Updated  []Room   `json:"updated"`
	Warnings []string `json:"warnings"`
}
