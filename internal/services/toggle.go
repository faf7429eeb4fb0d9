package services

// ToggleEnabledClass is set on a toggle's container while it is checked.
const ToggleEnabledClass = "is-enabled"

// ToggleClass returns the container class matching a toggle's checked state.
func ToggleClass(checked bool) string {
	if checked {
		return ToggleEnabledClass
	}
	return ""
}
