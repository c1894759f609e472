package domain

// Collection ids in the document store.
const (
	CollectionPosts       = "posts"
	CollectionCategories  = "categories"
	CollectionComments    = "comments"
	CollectionAdmins      = "admins"
	CollectionSubscribers = "subscribers"
)
