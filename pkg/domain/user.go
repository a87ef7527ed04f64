package domain

// User is a registered account. The username doubles as the account
// identifier that keys the per-account domain collection.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
