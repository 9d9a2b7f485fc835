package user

// User is one of the two fixed calendar users. The roster is injected from
// configuration; there is no user CRUD surface.
type User struct {
	Id          int
	Username    string
	DisplayName string
}
