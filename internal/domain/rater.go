package domain

// Rater represents a pre-provisioned human rater. Raters are created
// out-of-band by the study tooling; the engine only reads them during login
// and clears the one-time help flag after the first successful login.
type Rater struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"` // bcrypt hash, never exposed
	ShowHelp       bool   `json:"show_help"`
}

// Validate checks if the Rater has valid data.
func (r *Rater) Validate() error {
	if r.ID == 0 {
		return ErrEmptyRaterID
	}
	if r.Email == "" {
		return ErrEmptyEmail
	}
	if r.HashedPassword == "" {
		return ErrEmptyPasswordHash
	}
	return nil
}
