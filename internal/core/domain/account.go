package domain

// Tokens is the opaque bearer credential pair issued on sign-in or
// registration and destroyed on sign-out or any 401 response.
type Tokens struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

func (t Tokens) Valid() bool {
	return t.AccessToken != ""
}

type Account struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileUpdate carries a PATCH /profile/ payload. Zero-value fields are
// omitted from the request.
type ProfileUpdate struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}
