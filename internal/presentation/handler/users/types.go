package users

import "time"

// signupRequest represents the request to register a new account
type signupRequest struct {
	Name     string `json:"name" example:"Ada Lovelace" minLength:"2"`
	Email    string `json:"email" example:"ada@example.com" format:"email"`
	Password string `json:"password" example:"hunter2hunter2" minLength:"8"`
}

// loginRequest represents the request to exchange credentials for a token
type loginRequest struct {
	Email    string `json:"email" example:"ada@example.com" format:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// authResponse carries the signed access token together with the user it
// belongs to
type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}
