package domain

// Author is a post author stored in the admins collection.
type Author struct {
	ID     string  `firestore:"id" json:"id"`
	Name   string  `firestore:"name" json:"name"`
	Email  string  `firestore:"email" json:"email,omitempty"`
	Bio    string  `firestore:"bio" json:"bio,omitempty"`
	Avatar string  `firestore:"avatar" json:"avatar,omitempty"`
	Social *Social `firestore:"social" json:"social,omitempty"`
}

// Social holds optional profile links.
type Social struct {
	Twitter  string `firestore:"twitter" json:"twitter,omitempty"`
	GitHub   string `firestore:"github" json:"github,omitempty"`
	LinkedIn string `firestore:"linkedIn" json:"linkedIn,omitempty"`
}
