package models

import "strings"

// Reminder is a notification rule. Scheduling and delivery happen outside
// this backend, only the configuration is stored here.
type Reminder struct {
	DefaultModel
	Title    string `json:"title"`
	Time     string `json:"time"` // HH:MM, interpreted by the client
	Weekdays []int  `json:"weekdays"`
	Enabled  bool   `json:"enabled"`
}

// Normalize trims the title and makes sure weekdays marshal as an empty
// list instead of null.
func (r *Reminder) Normalize() {
	r.Title = strings.TrimSpace(r.Title)

	if r.Weekdays == nil {
		r.Weekdays = []int{}
	}
}
