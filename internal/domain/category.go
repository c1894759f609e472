package domain

// Category groups posts.
type Category struct {
	ID          string `firestore:"id" json:"id,omitempty"`
	Name        string `firestore:"name" json:"name"`
	Description string `firestore:"description" json:"description,omitempty"`
	PostCount   int    `firestore:"postCount" json:"postCount"`
}
