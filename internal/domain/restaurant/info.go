// Package restaurant describes the static facts about the restaurant.
package restaurant

// Hours holds the opening schedule.
type Hours struct {
	Weekday string `json:"weekday" yaml:"weekday"`
	Weekend string `json:"weekend" yaml:"weekend"`
	Closed  string `json:"closed" yaml:"closed"`
}

// Info is the restaurant profile. It is loaded once and never mutated.
type Info struct {
	Name            string   `json:"name" yaml:"name"`
	Address         string   `json:"address" yaml:"address"`
	Phone           string   `json:"phone" yaml:"phone"`
	Email           string   `json:"email" yaml:"email"`
	OpeningHours    Hours    `json:"opening_hours" yaml:"opening_hours"`
	CuisineTypes    []string `json:"cuisine_types" yaml:"cuisine_types"`
	SeatingCapacity int      `json:"seating_capacity" yaml:"seating_capacity"`
	Facilities      []string `json:"facilities" yaml:"facilities"`
}

// Clone returns a deep copy so callers cannot alias the shared profile.
func (i Info) Clone() Info {
	c := i
	c.CuisineTypes = append([]string(nil), i.CuisineTypes...)
	c.Facilities = append([]string(nil), i.Facilities...)
	return c
}
