package task

import "strings"

// Stats summarizes a task list by severity.
type Stats struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Unknown  int `json:"unknown"`
}

// CountByType tallies tasks by severity.
func CountByType(tasks []Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Type {
		case Error:
			s.Errors++
		case Warning:
			s.Warnings++
		default:
			s.Unknown++
		}
	}
	return s
}

// Filter returns the tasks matching the given predicate.
func Filter(tasks []Task, keep func(Task) bool) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// ByType returns a predicate matching tasks of the given severity.
func ByType(tp Type) func(Task) bool {
	return func(t Task) bool { return t.Type == tp }
}

// ByCategory returns a predicate matching tasks of the given category.
func ByCategory(cat Category) func(Task) bool {
	return func(t Task) bool { return t.Category == cat }
}

// ByFilePrefix returns a predicate matching tasks whose file starts with
// the given prefix.
func ByFilePrefix(prefix string) func(Task) bool {
	return func(t Task) bool { return strings.HasPrefix(t.File, prefix) }
}
