package domain

import "time"

type User struct {
	Id        UserId    `json:"id"`
	Username  Username  `json:"username"`
	Email     Email     `json:"email"`
	PassHash  string    `json:"-"`
	Admin     bool      `json:"is_admin"`
	Avatar    *string   `json:"avatar"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"timestamp"`
}

// to iterate thru layers: handler -> service -> storage
type UserCreationData struct {
	Username  Username
	Email     Email
	Password  Password
	FirstName string
	LastName  string
	Bio       string
}

// UserUpdateData carries a partial profile update. Nil fields are left untouched.
type UserUpdateData struct {
	Username  *Username
	FirstName *string
	LastName  *string
	Avatar    *string
	Bio       *string
}

// Credentials identify a login attempt by email or by username.
type Credentials struct {
	Email    Email
	Username Username
	Password Password
}

// AuthorRef is the public projection of a user embedded into posts.
type AuthorRef struct {
	Id       UserId   `json:"id"`
	Username Username `json:"username"`
	Email    Email    `json:"email"`
}

// PostRef is the short post projection embedded into user profiles.
type PostRef struct {
	Id    PostId `json:"id"`
	Title string `json:"title"`
}

// UserProfile is a user together with its most recent confirmation and authored posts.
type UserProfile struct {
	User
	Confirmation *Confirmation `json:"confirmation"`
	Posts        []PostRef     `json:"posts"`
}

// UserDeletePolicy decides what happens to authored posts when a user is deleted.
type UserDeletePolicy string

const (
	// UserDeleteRestrict forbids deleting a user that still owns posts.
	UserDeleteRestrict UserDeletePolicy = "restrict"
	// UserDeleteCascade deletes authored posts together with the user.
	UserDeleteCascade UserDeletePolicy = "cascade"
)
