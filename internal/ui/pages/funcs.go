package pages

import (
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/templui/cosmicblog/internal/model"
)

const dateLayout = "January 2, 2006"

// Imgix transform params per image slot.
const (
	featuredCardImage = "?w=800&h=400&fit=crop&auto=format,compress"
	cardImage         = "?w=600&h=300&fit=crop&auto=format,compress"
	heroImage         = "?w=1600&h=800&fit=crop&auto=format,compress"
	bylineAvatar      = "?w=32&h=32&fit=crop&auto=format"
	authorBoxAvatar   = "?w=80&h=80&fit=crop&auto=format"
	authorCardAvatar  = "?w=150&h=150&fit=crop&auto=format,compress"
	authorPageAvatar  = "?w=200&h=200&fit=crop&auto=format,compress"
)

// cx joins class lists, letting later utilities override earlier conflicting ones.
func cx(classes ...string) string {
	return twmerge.Merge(classes...)
}

func when(cond bool, classes string) string {
	if cond {
		return classes
	}
	return ""
}

func rfc3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// Avatar is an author image, or the author's initial when Src is empty.
type Avatar struct {
	Src   string
	Name  string
	Class string
}

// avatarSlot selects the imgix size for where the avatar is shown.
type avatarSlot string

const (
	slotByline avatarSlot = "byline"
	slotBox    avatarSlot = "box"
	slotCard   avatarSlot = "card"
	slotPage   avatarSlot = "page"
)

func newAvatar(a *model.Author, slot avatarSlot, class string) Avatar {
	avatar := Avatar{Name: a.Title, Class: class}
	if avatar.Name == "" {
		avatar.Name = model.AuthorName(a)
	}
	if src := model.AuthorAvatarURL(a); src != "" {
		avatar.Src = src + avatarParams[slot]
	}
	return avatar
}

var avatarParams = map[avatarSlot]string{
	slotByline: bylineAvatar,
	slotBox:    authorBoxAvatar,
	slotCard:   authorCardAvatar,
	slotPage:   authorPageAvatar,
}

func featuredSrc(p *model.Post) string {
	src := model.FeaturedImageURL(p)
	if src == "" {
		return ""
	}
	return src + heroImage
}

func initial(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// Card is the presentation of a post in a listing grid.
type Card struct {
	Href     string
	Title    string
	Image    string
	Category string
	Date     string
	Author   string
	Featured bool
}

func newCard(p *model.Post, featured bool) Card {
	c := Card{
		Href:     "/posts/" + p.Slug,
		Title:    p.Title,
		Featured: featured,
	}

	if src := model.FeaturedImageURL(p); src != "" {
		if featured {
			c.Image = src + featuredCardImage
		} else {
			c.Image = src + cardImage
		}
	}
	if p.Metadata.Category != nil {
		c.Category = model.CategoryName(p.Metadata.Category)
	}
	if p.Metadata.Author != nil {
		c.Author = model.AuthorName(p.Metadata.Author)
		c.Date = formatDate(p.EffectiveDate())
	}
	return c
}

// NavLink is a header navigation entry.
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

func navLinks(current string) []NavLink {
	return []NavLink{
		navLink(current, "/", "Home"),
		navLink(current, "/posts", "Posts"),
		navLink(current, "/categories", "Categories"),
		navLink(current, "/authors", "Authors"),
	}
}

// navLink marks href active on an exact match or, for sections, any page below it.
func navLink(current, href, label string) NavLink {
	active := current == href
	if href != "/" && strings.HasPrefix(current, href+"/") {
		active = true
	}
	return NavLink{Href: href, Label: label, Active: active}
}

// iconPaths holds the inner markup of the inline SVG icons.
var iconPaths = map[string]string{
	"sun":         `<circle cx="12" cy="12" r="4"/><path d="M12 2v2M12 20v2M4.93 4.93l1.41 1.41M17.66 17.66l1.41 1.41M2 12h2M20 12h2M6.34 17.66l-1.41 1.41M19.07 4.93l-1.41 1.41"/>`,
	"moon":        `<path d="M12 3a6 6 0 0 0 9 9 9 9 0 1 1-9-9Z"/>`,
	"menu":        `<path d="M4 6h16M4 12h16M4 18h16"/>`,
	"calendar":    `<rect width="18" height="18" x="3" y="4" rx="2"/><path d="M16 2v4M8 2v4M3 10h18"/>`,
	"user":        `<circle cx="12" cy="8" r="5"/><path d="M20 21a8 8 0 0 0-16 0"/>`,
	"tag":         `<path d="M12.586 2.586A2 2 0 0 0 11.172 2H4a2 2 0 0 0-2 2v7.172a2 2 0 0 0 .586 1.414l8.704 8.704a2.426 2.426 0 0 0 3.42 0l6.58-6.58a2.426 2.426 0 0 0 0-3.42z"/><circle cx="7.5" cy="7.5" r=".5"/>`,
	"arrow-left":  `<path d="m12 19-7-7 7-7M19 12H5"/>`,
	"arrow-right": `<path d="M5 12h14M12 5l7 7-7 7"/>`,
	"search":      `<circle cx="11" cy="11" r="8"/><path d="m21 21-4.3-4.3"/>`,
	"rss":         `<path d="M4 11a9 9 0 0 1 9 9M4 4a16 16 0 0 1 16 16"/><circle cx="5" cy="19" r="1"/>`,
}

// CategoryOption is one radio button of the posts category filter.
type CategoryOption struct {
	ID       string
	Name     string
	Selected bool
}

func newOption(id, name, selected string) CategoryOption {
	return CategoryOption{ID: id, Name: name, Selected: id == selected}
}
