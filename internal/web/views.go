package web

import (
	"time"

	"github.com/samvad-hq/picnic-web/internal/domain"
	"github.com/samvad-hq/picnic-web/internal/site"
	"github.com/samvad-hq/picnic-web/internal/slider"
	"github.com/samvad-hq/picnic-web/internal/toast"
)

// notFoundIllustration is lazy-loaded behind the not-found link.
const notFoundIllustration = "https://storage.googleapis.com/komerce/assets/LP-Rajaongkir/not-found_ylhhyw.svg"

type inputView struct {
	ID          string
	Name        string
	Type        string
	Placeholder string
	Value       string
	Prefix      string
	Suffix      string
	SuffixFor   string
}

type modalView struct {
	ID     string
	Title  string
	Body   string
	Action string
	Submit string
}

type lazyView struct {
	URL   string
	Class string
}

type toastView struct {
	Kind      toast.Kind
	Class     string
	Icon      string
	Message   string
	DismissMs int64
}

type loginForm struct {
	Username string
}

type pageData struct {
	Title        string
	Site         site.Metadata
	Toasts       []toastView
	Username     string
	Users        []domain.User
	Slider       slider.State
	Form         loginForm
	Illustration string
}

func toastViews(items []toast.Toast, now time.Time) []toastView {
	if len(items) == 0 {
		return nil
	}
	out := make([]toastView, 0, len(items))
	for _, t := range items {
		out = append(out, toastView{
			Kind:      t.Kind,
			Class:     t.Kind.Class(),
			Icon:      t.Kind.Icon(),
			Message:   t.Message,
			DismissMs: t.RemainingMs(now),
		})
	}
	return out
}
