package usecase

import "crewroster-service/internal/domain/entity"

// MergeRosterDays combines freshly imported days with the existing roster.
// An incoming day replaces the existing day with the same date wholesale;
// newer data wins, there is no field-level merge. Days present on only one
// side are kept. The result is a new slice sorted ascending by date; the
// inputs are not modified. Merging the same incoming set twice yields the
// same result as merging it once.
func MergeRosterDays(existing, incoming []entity.RosterDay) []entity.RosterDay {
	byDate := make(map[string]int, len(existing))
	merged := make([]entity.RosterDay, len(existing))
	copy(merged, existing)
	for i, day := range merged {
		byDate[day.Date] = i
	}

	for _, day := range incoming {
		if i, ok := byDate[day.Date]; ok {
			merged[i] = day
			continue
		}
		byDate[day.Date] = len(merged)
		merged = append(merged, day)
	}

	entity.SortRosterDays(merged)
	return merged
}
