package models

// Student is one directory record.
type Student struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Program string `json:"program"`
	Year    int    `json:"year"`
}
