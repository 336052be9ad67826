package domain

type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
}
