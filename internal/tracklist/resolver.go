package tracklist

import (
	"log/slog"
	"strings"

	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
)

// DefaultQualifier is appended to every title to bias searches toward DJ edits.
const DefaultQualifier = " Extended Mix"

// Input bundles the raw metadata the resolver chooses from.
type Input struct {
	Ref             string
	Description     string
	Chapters        []Chapter
	CaptionMetadata []CaptionEntry
}

// strategy is one step of the extraction chain.
type strategy struct {
	name    Source
	extract func(Input) []TrackCandidate
}

// strategies is tried in order; the first non-empty result wins.
var strategies = []strategy{
	{SourceDescription, func(in Input) []TrackCandidate { return ExtractFromText(in.Description) }},
	{SourceChapters, func(in Input) []TrackCandidate { return ExtractFromChapters(in.Chapters) }},
	{SourceMusicMetadata, func(in Input) []TrackCandidate { return ExtractFromCaptionMetadata(in.CaptionMetadata) }},
}

// Resolver normalizes candidates into search queries.
type Resolver struct {
	qualifier           string
	qualifierInFilename bool
}

// Option is a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithQualifier sets the suffix appended to every search text. Surrounding
// whitespace is trimmed; the rest is appended verbatim after a single space.
// An empty qualifier disables the suffix.
func WithQualifier(q string) Option {
	return func(r *Resolver) {
		r.qualifier = q
	}
}

// WithQualifierInFilename controls whether DisplayName carries the qualifier too.
func WithQualifierInFilename(v bool) Option {
	return func(r *Resolver) {
		r.qualifierInFilename = v
	}
}

// NewResolver creates a resolver with the default qualifier baked into both
// the search text and the display name.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		qualifier:           DefaultQualifier,
		qualifierInFilename: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Qualifier returns the configured suffix.
func (r *Resolver) Qualifier() string {
	return r.qualifier
}

// Resolve picks the first extractor that yields candidates and normalizes them.
// It returns a NoTracklistError when every extractor comes back empty.
func (r *Resolver) Resolve(in Input) ([]ResolvedQuery, Source, error) {
	for _, s := range strategies {
		candidates := s.extract(in)
		if len(candidates) == 0 {
			slog.Debug("Extractor yielded nothing", "source", s.name, "ref", in.Ref)
			continue
		}
		slog.Debug("Tracklist extracted", "source", s.name, "count", len(candidates), "ref", in.Ref)
		return r.ResolveCandidates(candidates), s.name, nil
	}
	return nil, 0, mixerrors.NewNoTracklistError(in.Ref)
}

// ResolveCandidates normalizes candidates in order. Repeated titles are kept.
func (r *Resolver) ResolveCandidates(candidates []TrackCandidate) []ResolvedQuery {
	queries := make([]ResolvedQuery, 0, len(candidates))
	for _, c := range candidates {
		q, ok := r.normalize(c.RawTitle)
		if !ok {
			continue
		}
		queries = append(queries, q)
	}
	return queries
}

func (r *Resolver) normalize(raw string) (ResolvedQuery, bool) {
	title := collapseSpaces(raw)
	if title == "" {
		return ResolvedQuery{}, false
	}

	search := title
	if q := strings.TrimSpace(r.qualifier); q != "" {
		search = title + " " + q
	}

	display := title
	if r.qualifierInFilename {
		display = search
	}

	return ResolvedQuery{DisplayName: display, SearchText: search}, true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
