package controllers

// StrValue dereferences s, treating nil as "".
func StrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
