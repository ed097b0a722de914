// file: model/request.go

package model

// Credentials defines the payload for creating an account or logging in.
// It includes validation tags to ensure data integrity at the entry point.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}
