package models

// Profile is the extended, editable user record. All fields beyond the
// identity are optional on the server projection; empty values are omitted
// on update so a partial PUT does not blank them.
type Profile struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`

	Title      string   `json:"title,omitempty"`
	Location   string   `json:"location,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Education  string   `json:"education,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	LinkedIn   string   `json:"linkedin,omitempty"`
	GitHub     string   `json:"github,omitempty"`
	Twitter    string   `json:"twitter,omitempty"`
	AvatarURL  string   `json:"avatar_url,omitempty"`
}

// MergeIdentity fills username/email from the session user when the server
// projection left them empty (merge-on-read).
func (p *Profile) MergeIdentity(u *User) {
	if u == nil {
		return
	}
	if p.Username == "" {
		p.Username = u.Username
	}
	if p.Email == "" {
		p.Email = u.Email
	}
}
