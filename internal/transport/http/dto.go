package http

import "github.com/cwrk-planet/course-relay/internal/domain"

type RegisterRequest struct {
	Username string   `json:"username"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
}

type CreateCourseRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Desc   string `json:"desc"`
	Image  string `json:"image"`
}

type RoomItem struct {
	Room    string `json:"room"`
	Members int    `json:"members"`
}

type RoomsListResponse struct {
	Items []RoomItem `json:"items"`
}

// CoursesResponse is the plain array returned by GET /api/courses.
type CoursesResponse []domain.CourseWithCreator
