package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lumen-youth/lumen/core"
)

type Kind string

const (
	KindBook    Kind = "book"
	KindArticle Kind = "article"
	KindVideo   Kind = "video"
)

var Kinds = []Kind{KindBook, KindArticle, KindVideo}

func (k Kind) Valid() bool {
	switch k {
	case KindBook, KindArticle, KindVideo:
		return true
	}
	return false
}

// Item is a book, an article or a video.
type Item struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	Author      string     `json:"author"`
	URL         string     `json:"url"`
	ImageURL    string     `json:"image_url"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"` // UTC
	CreatedAt   time.Time  `json:"created_at"`   // UTC
	UpdatedAt   time.Time  `json:"updated_at"`   // UTC
}

// setPublished stamps PublishedAt the first time the item gets published.
func (it *Item) setPublished(published bool, now time.Time) {
	it.IsPublished = published
	if published && it.PublishedAt == nil {
		now = now.UTC()
		it.PublishedAt = &now
	}
}

// NewItem contains information needed to create a new Item.
type NewItem struct {
	Kind        Kind   `json:"kind" validate:"required,contentkind"`
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Summary     string `json:"summary"`
	Body        string `json:"body"`
	Author      string `json:"author" validate:"max=255"`
	URL         string `json:"url" validate:"omitempty,url"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	IsPublished bool   `json:"is_published"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.Kind = Kind(core.CleanString(string(ni.Kind), true /* lower */))
	ni.Title = core.CleanString(ni.Title)
	ni.Summary = core.CleanString(ni.Summary)
	ni.Body = core.CleanString(ni.Body)
	ni.Author = core.CleanString(ni.Author)
	ni.URL = core.CleanString(ni.URL)
	ni.ImageURL = core.CleanString(ni.ImageURL)
	return validate.Struct(ni)
}

// UpdateItem defines what information may be provided to modify an existing Item.
// The kind of an Item never changes.
type UpdateItem struct {
	Kind        Kind    `json:"-"`
	Title       string  `json:"title" validate:"max=255"`
	Summary     *string `json:"summary"`
	Body        *string `json:"body"`
	Author      *string `json:"author" validate:"omitempty,max=255"`
	URL         *string `json:"url" validate:"omitempty,url"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	IsPublished *bool   `json:"is_published"`
}

func (ui *UpdateItem) Validate(orig Item, validate *validator.Validate) error {
	ui.Kind = orig.Kind
	if title := core.CleanString(ui.Title); title != "" {
		ui.Title = title
	} else {
		ui.Title = orig.Title
	}
	fallback := func(s **string, origVal string) {
		if *s == nil {
			*s = &origVal
			return
		}
		**s = core.CleanString(**s)
	}
	fallback(&ui.Summary, orig.Summary)
	fallback(&ui.Body, orig.Body)
	fallback(&ui.Author, orig.Author)
	fallback(&ui.URL, orig.URL)
	fallback(&ui.ImageURL, orig.ImageURL)
	return validate.Struct(ui)
}

type QueryFilter struct {
	Search      string `query:"search"`
	Kind        Kind   `query:"kind"`
	IsPublished *bool  `query:"is_published"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Kind == "" && qf.IsPublished == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Kind = Kind(core.CleanString(string(qf.Kind), true /* lower */))
}
