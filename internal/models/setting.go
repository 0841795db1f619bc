package models

// Setting is a free-form per-user preference
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
