package client

import "context"

type Profile struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type Claims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

type Event struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title"`
	Name          string   `json:"name"`
	DateTime      string   `json:"dateTime"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	AttendeeCount int      `json:"attendeeCount"`
	Attendees     []string `json:"attendees"`
	Joined        *bool    `json:"joined,omitempty"`
}

type EventInput struct {
	Title       string `json:"title"`
	DateTime    string `json:"dateTime"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhotoURL string `json:"photoURL,omitempty"`
}

type PhotoUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadURL"`
	PhotoURL  string `json:"photoURL"`
}

// Client is the API surface the CLI depends on.
type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (*Profile, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*Profile, error)
	CheckAuth(ctx context.Context) (*Claims, error)
	ListEvents(ctx context.Context, search, filter string) ([]Event, error)
	MyEvents(ctx context.Context) ([]Event, error)
	FeaturedEvents(ctx context.Context) ([]Event, error)
	AddEvent(ctx context.Context, in EventInput) (string, error)
	JoinEvent(ctx context.Context, id string) error
	UpdateEvent(ctx context.Context, id string, in EventInput) error
	DeleteEvent(ctx context.Context, id string) error
	PresignPhoto(ctx context.Context, contentType string) (*PhotoUpload, error)
	UploadPhoto(ctx context.Context, uploadURL, contentType string, data []byte) error
	SessionToken() string
	SetSessionToken(token string)
}
