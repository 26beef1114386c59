package models

// Registration is the payload exchanged for a bearer token.
type Registration struct {
	FullName string `json:"full_name" binding:"required" example:"Alex Osorio Trujillo"`
	Email    string `json:"email" binding:"required" example:"alex@example.com"`
	Password string `json:"password" binding:"required" example:"some-secret-password"`
}

// Subject renders the registrant as a token subject: "Full Name <email>".
func (r Registration) Subject() string {
	return r.FullName + " <" + r.Email + ">"
}

// AuthBody is returned by a successful registration.
type AuthBody struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
}
