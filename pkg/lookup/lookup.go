// Package lookup composes the collaborator clients into the resolution
// chains the interactive flows use: one for person names, one for
// facility names. Collaborators enter as narrow single-method interfaces,
// so the chains run identically over live clients and test fakes.
package lookup

import (
	"context"
	"fmt"

	"github.com/coolbeans/shuddhi/pkg/candidate"
	"github.com/coolbeans/shuddhi/pkg/fallback"
)

// Translator converts English text to Hindi.
type Translator interface {
	TranslateToHindi(ctx context.Context, text string) (string, error)
}

// Transliterator renders romanized text in Devanagari.
type Transliterator interface {
	First(ctx context.Context, text string) (string, error)
}

// Searcher returns the joined result text for a web query.
type Searcher interface {
	SearchText(ctx context.Context, query string) (string, error)
}

// Directory answers facility lookups from the local roster.
type Directory interface {
	Lookup(name string) (string, bool)
}

// searchQueryFormat mirrors the phrasing that reliably surfaces official
// Hindi names in search results.
const searchQueryFormat = "official hindi name of %s"

// PersonChain resolves a person name: translate, else transliterate,
// else keep the name unchanged.
func PersonChain(translator Translator, transliterator Transliterator) *fallback.Chain {
	var steps []fallback.Step

	if translator != nil {
		steps = append(steps, fallback.Step{
			Name: "translation",
			Run: func(ctx context.Context, name string) (string, error) {
				return translator.TranslateToHindi(ctx, name)
			},
		})
	}
	if transliterator != nil {
		steps = append(steps, fallback.Step{
			Name: "transliteration",
			Run: func(ctx context.Context, name string) (string, error) {
				return transliterator.First(ctx, name)
			},
		})
	}
	steps = append(steps, fallback.Identity())

	return fallback.NewChain("person", steps...)
}

// FacilityChain resolves a facility name: the roster directory first,
// then web search with Hindi-name extraction over the result text, then
// translation, then the name unchanged. Nil collaborators drop their
// step from the chain.
func FacilityChain(directory Directory, searcher Searcher, translator Translator) *fallback.Chain {
	var steps []fallback.Step

	if directory != nil {
		steps = append(steps, fallback.Step{
			Name: "directory",
			Run: func(_ context.Context, name string) (string, error) {
				if text, ok := directory.Lookup(name); ok {
					return text, nil
				}
				return "", fmt.Errorf("%q not in directory", name)
			},
		})
	}
	if searcher != nil {
		steps = append(steps, fallback.Step{
			Name: "web-search",
			Run: func(ctx context.Context, name string) (string, error) {
				text, err := searcher.SearchText(ctx, fmt.Sprintf(searchQueryFormat, name))
				if err != nil {
					return "", err
				}
				best, ok := candidate.PickBest(text)
				if !ok {
					return "", fmt.Errorf("no usable Hindi name in results for %q", name)
				}
				return best.Text, nil
			},
		})
	}
	if translator != nil {
		steps = append(steps, fallback.Step{
			Name: "translation",
			Run: func(ctx context.Context, name string) (string, error) {
				return translator.TranslateToHindi(ctx, name)
			},
		})
	}
	steps = append(steps, fallback.Identity())

	return fallback.NewChain("facility", steps...)
}

// Deps carries the collaborators a Resolver runs over. Any of them may be
// nil; the corresponding steps are dropped.
type Deps struct {
	Translator     Translator
	Transliterator Transliterator
	Searcher       Searcher
	Directory      Directory
}

// Resolver bundles the person and facility chains.
type Resolver struct {
	person   *fallback.Chain
	facility *fallback.Chain
}

// NewResolver builds a Resolver over the given collaborators.
func NewResolver(deps Deps) *Resolver {
	return &Resolver{
		person:   PersonChain(deps.Translator, deps.Transliterator),
		facility: FacilityChain(deps.Directory, deps.Searcher, deps.Translator),
	}
}

// Person resolves a person name to Hindi.
func (r *Resolver) Person(ctx context.Context, name string) (fallback.Resolution, error) {
	return r.person.Resolve(ctx, name)
}

// Facility resolves a facility name to Hindi.
func (r *Resolver) Facility(ctx context.Context, name string) (fallback.Resolution, error) {
	return r.facility.Resolve(ctx, name)
}
