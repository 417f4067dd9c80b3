package domain

type (
	UserId    = int64
	Username  = string
	Email     = string
	Password  = string
	PostId    = int64
	TagId     = int64
	CommentId = int64
	TagName   = string

	ConfirmationId = string
)
