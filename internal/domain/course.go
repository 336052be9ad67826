package domain

import "time"

// UnknownCreator is reported for courses whose author is not in the store.
const UnknownCreator = "Unknown"

type Course struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Desc   string `json:"desc"`
	Image  string `json:"image"`

	CreatedAt time.Time `json:"-"`
}

type CourseWithCreator struct {
	Course
	Creator string `json:"creator"`
}
