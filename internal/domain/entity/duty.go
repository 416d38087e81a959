package entity

import "strings"

// DutyCategory is the semantic category of a duty day, used by the
// presentation layer for styling.
type DutyCategory string

const (
	DutyOff     DutyCategory = "off"
	DutySick    DutyCategory = "sick"
	DutyStandby DutyCategory = "standby"
	DutyGround  DutyCategory = "ground"
	DutyFlight  DutyCategory = "flight"
	DutyUnknown DutyCategory = "unknown"
)

// Duty code sets, matched case-insensitively. An unknown code is shown
// verbatim by the client, so the sets stay deliberately small.
var (
	offDutyCodes     = codeSet("DOF", "OFF", "VAC")
	sickDutyCodes    = codeSet("ILL", "ILM", "SIC")
	standbyDutyCodes = codeSet("SBY", "MIS", "ASB", "SSB")
	groundDutyCodes  = codeSet("DG", "CBT", "RET3", "AID3", "TRA")
	flightDutyCodes  = codeSet("C/I", "C/O", "PICKUP", "DH", "PICK UP", "F1D", "FLD")
)

func codeSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// ClassifyDuty maps a duty code to its category. The empty code means "no
// data for this date" and counts as off. Codes in no set are DutyUnknown.
func ClassifyDuty(code string) DutyCategory {
	upper := strings.ToUpper(strings.TrimSpace(code))
	switch {
	case upper == "":
		return DutyOff
	case contains(offDutyCodes, upper):
		return DutyOff
	case contains(sickDutyCodes, upper):
		return DutySick
	case contains(standbyDutyCodes, upper):
		return DutyStandby
	case contains(groundDutyCodes, upper):
		return DutyGround
	case contains(flightDutyCodes, upper):
		return DutyFlight
	default:
		return DutyUnknown
	}
}

// DutyCategory classifies the day. A day with flights attached is a flight
// duty regardless of its code; otherwise the code decides.
func (d RosterDay) DutyCategory() DutyCategory {
	if len(d.Flights) > 0 {
		return DutyFlight
	}
	return ClassifyDuty(d.Duty)
}

func contains(set map[string]struct{}, code string) bool {
	_, ok := set[code]
	return ok
}
