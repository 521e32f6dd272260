package petitions

import (
	"net/http"

	"github.com/dalemusser/kairo/internal/app/system/auth"
	"github.com/dalemusser/kairo/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// petitionView is a petition as one caller may see it. Signatures are
// emptied unless the caller is the author; the count is always exact.
type petitionView struct {
	models.Petition
	SignatureCount int    `json:"signatureCount"`
	IsOwner        bool   `json:"isOwner"`
	Title          string `json:"title"`
	Description    string `json:"description"`
}

// viewer is the caller-specific context for shaping petitions.
type viewer struct {
	id   string // "" when anonymous
	lang string // resolved content slot, "en" or "hi"
}

// newViewer resolves the content language from the lang query parameter,
// then the caller's profile language, then English.
func newViewer(r *http.Request) viewer {
	v := viewer{lang: models.LangEN}
	ident, ok := auth.CurrentIdentity(r)
	if ok {
		v.id = ident.ID
	}

	switch lang := query.Get(r, "lang"); lang {
	case models.LangEN, models.LangHI:
		v.lang = lang
	default:
		if ok && ident.Profile.Language == models.LanguageHindi {
			v.lang = models.LangHI
		}
	}
	return v
}

func (v viewer) view(p models.Petition) petitionView {
	isOwner := v.id != "" && p.AuthorID.Hex() == v.id

	out := petitionView{
		Petition:       p,
		SignatureCount: len(p.Signatures),
		IsOwner:        isOwner,
	}
	if !isOwner || out.Signatures == nil {
		out.Signatures = []models.Signature{}
	}

	slot := p.Content.Slot(v.lang)
	if slot.IsEmpty() {
		other := models.LangHI
		if v.lang == models.LangHI {
			other = models.LangEN
		}
		slot = p.Content.Slot(other)
	}
	out.Title = slot.Title
	out.Description = slot.Description
	return out
}

func (v viewer) viewAll(ps []models.Petition) []petitionView {
	out := make([]petitionView, 0, len(ps))
	for _, p := range ps {
		out = append(out, v.view(p))
	}
	return out
}
