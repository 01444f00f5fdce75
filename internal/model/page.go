package model

// StaticPage is a local markdown page such as "about" or "privacy".
type StaticPage struct {
	Title       string
	Slug        string
	Description string
	HTMLContent string
	LastUpdated string
}
