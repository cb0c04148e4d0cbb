package auth

// User is the slice of a donor record needed to authenticate and to seed a
// session identity.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
}
