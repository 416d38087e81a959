package entity

import (
	"encoding/json"
	"sort"
)

// SchemaVersion is the current version of the persisted roster document.
// Version 1 files were a bare JSON array of days with no version tag.
const SchemaVersion = 2

// TimeNotApplicable is the sentinel the parser backend emits for a
// check-in/out or dep/arr time that does not apply. It is preserved
// verbatim; interpretation is a presentation concern.
const TimeNotApplicable = "<NA>"

// Crew holds the cockpit and cabin member lists for a duty.
// Each entry is a raw "ID FamilyName GivenNames" string from the roster PDF.
type Crew struct {
	Cockpit   []string `json:"cockpit"`
	Cabin     []string `json:"cabin"`
	FlightNum *string  `json:"flight_num,omitempty"`
}

// Flight is one flight segment within a duty day.
type Flight struct {
	FlightNum string  `json:"flight_num"`
	Departure string  `json:"departure"`
	Arrival   *string `json:"arrival,omitempty"`
	DepTime   *string `json:"dep_time,omitempty"`
	ArrTime   *string `json:"arr_time,omitempty"`
	AcType    *string `json:"ac_type,omitempty"`
}

// Key identifies a flight for list-diffing purposes. Two segments with the
// same flight number, departure station and departure time are the same
// segment.
func (f Flight) Key() string {
	dep := ""
	if f.DepTime != nil {
		dep = *f.DepTime
	}
	return f.FlightNum + "|" + f.Departure + "|" + dep
}

// RosterDay is one calendar day of a crew member's schedule. The date string
// (YYYY-MM-DD) is its identity within a roster; days are never mutated in
// place, an update replaces the whole entry.
type RosterDay struct {
	Date            string            `json:"date"`
	Duty            string            `json:"duty"`
	CheckIn         *string           `json:"check_in,omitempty"`
	CheckOut        *string           `json:"check_out,omitempty"`
	Flights         []Flight          `json:"flights"`
	TimeLimits      map[string]string `json:"time_limits"`
	Info            []string          `json:"info"`
	Hotel           []string          `json:"hotel"`
	Crew            Crew              `json:"crew"`
	CrewGroundEvent []string          `json:"crew_ground_event"`
}

// RosterDayRaw is the shape of one value in the parser backend's response,
// which is keyed by date rather than carrying it as a field. Crew is a
// pointer so that a missing key is distinguishable from an empty crew.
type RosterDayRaw struct {
	Duty            string            `json:"duty"`
	CheckIn         *string           `json:"check_in"`
	CheckOut        *string           `json:"check_out"`
	Flights         []Flight          `json:"flights"`
	TimeLimits      map[string]string `json:"time_limits"`
	Info            []string          `json:"info"`
	Hotel           []string          `json:"hotel"`
	Crew            *Crew             `json:"crew"`
	CrewGroundEvent []string          `json:"crew_ground_event"`
}

// ToRosterDay attaches the date key to a raw day record.
func (r RosterDayRaw) ToRosterDay(date string) RosterDay {
	var crew Crew
	if r.Crew != nil {
		crew = *r.Crew
	}
	return RosterDay{
		Date:            date,
		Duty:            r.Duty,
		CheckIn:         r.CheckIn,
		CheckOut:        r.CheckOut,
		Flights:         r.Flights,
		TimeLimits:      r.TimeLimits,
		Info:            r.Info,
		Hotel:           r.Hotel,
		Crew:            crew,
		CrewGroundEvent: r.CrewGroundEvent,
	}
}

// SortRosterDays orders days ascending by date. Lexicographic order on the
// YYYY-MM-DD strings is chronological order.
func SortRosterDays(days []RosterDay) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
}

// RosterDocument is the persisted on-disk form of a user's roster.
type RosterDocument struct {
	Version int         `json:"version"`
	Days    []RosterDay `json:"days"`
}

// Equal reports field-for-field equality of two days via their canonical
// JSON encoding.
func (d RosterDay) Equal(other RosterDay) bool {
	a, errA := json.Marshal(d)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}
