package utils

// CrewMember is a crew list entry split into its parts. Raw roster entries
// look like "16704 Flaathen Kristoffer" with the employee ID first.
type CrewMember struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Name       string `json:"name"`
}

// RosterTime is a decoded HHMM roster time token. Flagged preserves the "!"
// prefix some rosters attach; NotApplicable marks the "<NA>" sentinel. Both
// symbols carry through verbatim in Raw because their exact meaning is a
// presentation decision.
type RosterTime struct {
	Raw           string `json:"raw"`
	Time          string `json:"time,omitempty"`
	Flagged       bool   `json:"flagged,omitempty"`
	NotApplicable bool   `json:"not_applicable,omitempty"`
}

// Codeshare is a flight number split into operating and marketing carriers,
// e.g. "DH/DY623". Marketing is empty for a plain flight number.
type Codeshare struct {
	Operating string `json:"operating"`
	Marketing string `json:"marketing,omitempty"`
}

// TimeLimit is one duty-time limit in display order.
type TimeLimit struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TimeLimitKeys is the display order for the duty-time limit map. Keys the
// server did not supply are simply absent.
var TimeLimitKeys = []string{"FT", "DT", "FDT", "FDP", "RT", "BRK", "mFDP", "xFDP", "DTwSB"}

// OrderedTimeLimits flattens a time-limit map into display order. Keys
// outside TimeLimitKeys are dropped; absent keys produce no entry.
func OrderedTimeLimits(limits map[string]string) []TimeLimit {
	var ordered []TimeLimit
	for _, key := range TimeLimitKeys {
		if value, ok := limits[key]; ok {
			ordered = append(ordered, TimeLimit{Key: key, Value: value})
		}
	}
	return ordered
}
