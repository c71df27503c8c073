package content

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/lumen-youth/lumen/core"
)

var (
	kindTag  = "contentkind"
	kindText = "kind must be one of book, article or video"

	authorRequiredTag  = "bookauthor"
	authorRequiredText = "books need an author"

	bodyRequiredTag  = "articlebody"
	bodyRequiredText = "articles need a body"

	urlRequiredTag  = "videourl"
	urlRequiredText = "videos need a url"
)

// InitValidators registers the content validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(kindTag, kindValidation)
	core.RegisterCustomTranslation(validate, translator, kindTag, kindText)

	validate.RegisterStructValidation(itemStructValidation, NewItem{}, UpdateItem{})
	core.RegisterCustomTranslation(validate, translator, authorRequiredTag, authorRequiredText)
	core.RegisterCustomTranslation(validate, translator, bodyRequiredTag, bodyRequiredText)
	core.RegisterCustomTranslation(validate, translator, urlRequiredTag, urlRequiredText)
}

func kindValidation(fl validator.FieldLevel) bool {
	return Kind(fl.Field().String()).Valid()
}

// itemStructValidation applies the kind specific rules.
func itemStructValidation(sl validator.StructLevel) {
	switch it := sl.Current().Interface().(type) {
	case NewItem:
		validateKindFields(it.Kind, it.Author, it.Body, it.URL, sl)
	case UpdateItem:
		validateKindFields(it.Kind, deref(it.Author), deref(it.Body), deref(it.URL), sl)
	}
}

func validateKindFields(kind Kind, author, body, url string, sl validator.StructLevel) {
	switch kind {
	case KindBook:
		if author == "" {
			sl.ReportError(author, "author", "Author", authorRequiredTag, "")
		}
	case KindArticle:
		if body == "" {
			sl.ReportError(body, "body", "Body", bodyRequiredTag, "")
		}
	case KindVideo:
		if url == "" {
			sl.ReportError(url, "url", "URL", urlRequiredTag, "")
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
