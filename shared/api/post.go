package api

type CreatePostRequest struct {
	Title string   `json:"title" validate:"required,max=200"`
	Body  string   `json:"body" validate:"required"`
	Tags  []string `json:"tags" validate:"dive,required,max=64"`
}

// ReplacePostRequest is the full update used by PUT.
type ReplacePostRequest = CreatePostRequest

type PatchPostRequest struct {
	Title *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Body  *string   `json:"body" validate:"omitempty,min=1"`
	Tags  *[]string `json:"tags" validate:"omitempty,dive,required,max=64"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type CommentRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

// SetConfirmedRequest hides (false) or reveals (true) a comment.
type SetConfirmedRequest struct {
	Confirmed *bool `json:"confirmed" validate:"required"`
}
