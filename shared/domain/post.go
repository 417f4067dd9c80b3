package domain

import "time"

type Post struct {
	Id            PostId    `json:"id"`
	Title         string    `json:"title"`
	Body          string    `json:"body,omitempty"`
	BodyHTML      string    `json:"body_html,omitempty"`
	CreatedAt     time.Time `json:"timestamp"`
	Author        AuthorRef `json:"author"`
	Tags          []TagName `json:"tags"`
	Comments      []Comment `json:"comments,omitempty"`
	CommentsCount int       `json:"comments_count"`
}

// to iterate thru layers: handler -> service -> storage
type PostCreationData struct {
	AuthorId UserId
	Title    string
	Body     string
	Tags     []TagName
}

// PostUpdateData is used both for partial (PATCH) and full (PUT) updates.
// For a full update every field is set.
type PostUpdateData struct {
	Title *string
	Body  *string
	Tags  *[]TagName
}

type Tag struct {
	Id   TagId   `json:"id"`
	Name TagName `json:"name"`
}

type Comment struct {
	Id        CommentId `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"timestamp"`
	AuthorId  UserId    `json:"user_id"`
	PostId    PostId    `json:"post_id"`
	Confirmed bool      `json:"-"`
}

type CommentCreationData struct {
	AuthorId UserId
	PostId   PostId
	Body     string
}
