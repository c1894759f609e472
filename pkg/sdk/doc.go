// Package inkwell provides a Go client for an inkwell blog stored in
// Firestore.
//
// The client reads posts, comments, categories and authors through the
// Firestore REST API, optionally caching query responses in Redis, and
// prepares post content for display (heading anchors and a table of
// contents).
//
// # Service API
//
//	client, _ := inkwell.New(ctx, inkwell.WithProject("my-blog"))
//	posts, _ := client.Posts().Recent(ctx, 10, nil)
//	post, _ := client.Posts().BySlug(ctx, "hello-world")
//	res, _ := client.Outline().Prepare(inkwell.FormatHTML, post.Content)
//
// # Query API
//
//	records, _ := client.Query(inkwell.CollectionPosts).
//	    WhereEqualTo("status", "published").
//	    OrderBy("publishedAt", inkwell.Desc).
//	    Limit(5).
//	    Join().
//	    Get(ctx)
//	posts, _ := inkwell.Decode[inkwell.Post](records)
package inkwell
