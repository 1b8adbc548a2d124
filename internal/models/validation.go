package models

type (
	// ValidationResult groups the checks of one category reported by `terminal validate`.
	ValidationResult struct {
		Category string
		Items    []ValidationItem
	}

	ValidationItem struct {
		Name    string
		Passed  bool
		Message string
	}
)

// Passed counts the passing items.
func (v ValidationResult) Passed() int {
	n := 0
	for _, item := range v.Items {
		if item.Passed {
			n++
		}
	}
	return n
}

func (v ValidationResult) OK() bool {
	return v.Passed() == len(v.Items)
}
