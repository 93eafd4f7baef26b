package repositories

import "sort"

// sortByID orders mock results by id ascending, matching the stable ordering
// of the GORM repositories.
func sortByID[T any](list []T, id func(T) string) []T {
	sort.Slice(list, func(i, j int) bool { return id(list[i]) < id(list[j]) })
	return list
}

// paginate applies skip/limit to an already sorted result set.
func paginate[T any](list []T, skip, limit int) []T {
	if skip >= len(list) {
		return []T{}
	}
	list = list[skip:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
