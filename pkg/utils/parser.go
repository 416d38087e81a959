package utils

import "strings"

const notApplicable = "<NA>"

// ParseCrewMember splits a raw crew entry into employee ID and name. The
// first whitespace-delimited token is the ID, the rest is the name. Entries
// with no ID come back with the whole string as the name.
func ParseCrewMember(raw string) CrewMember {
	trimmed := strings.TrimSpace(raw)
	id, name, found := strings.Cut(trimmed, " ")
	if !found || !isDigits(id) {
		return CrewMember{Name: trimmed}
	}
	return CrewMember{
		EmployeeID: id,
		Name:       strings.TrimSpace(name),
	}
}

// ParseRosterTime decodes an HHMM token, preserving the "!" prefix and the
// "<NA>" sentinel.
func ParseRosterTime(raw string) RosterTime {
	rt := RosterTime{Raw: raw}
	if raw == notApplicable {
		rt.NotApplicable = true
		return rt
	}
	if strings.HasPrefix(raw, "!") {
		rt.Flagged = true
		rt.Time = raw[1:]
		return rt
	}
	rt.Time = raw
	return rt
}

// ParseCodeshare splits an OPERATING/MARKETING flight number. A plain
// flight number comes back with Marketing empty.
func ParseCodeshare(flightNum string) Codeshare {
	op, marketing, found := strings.Cut(flightNum, "/")
	if !found {
		return Codeshare{Operating: flightNum}
	}
	return Codeshare{Operating: op, Marketing: marketing}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
