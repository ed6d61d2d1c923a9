package players

import "strings"

// DisplayPlayer is the UI-ready projection of an upstream player record.
// It is recomputed on every fetch and dropped when the list unmounts.
type DisplayPlayer struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Team     string `json:"team"`
}

// FullName joins first and last name with a single space.
func FullName(first, last string) string {
	return strings.Join([]string{first, last}, " ")
}
