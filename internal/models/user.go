package models

// User types carried in the access token. Accounts themselves live in the
// account service.
const (
	UserTypeUser      = "user"
	UserTypeCounselor = "counselor"
	UserTypeAdmin     = "admin"
)
