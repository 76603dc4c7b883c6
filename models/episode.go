package models

// Language is an audio track variant of an episode
type Language string

// Language constants
const (
	LanguageSubtitled Language = "vietsub"
	LanguageDubbed    Language = "thuyetminh"
)

// Languages lists every audio track in display order
var Languages = []Language{LanguageSubtitled, LanguageDubbed}

// Servers lists the mirror slots every episode may carry per language
var Servers = []string{"sv1", "sv2", "sv3"}

// MovieRef is the minimal movie reference nested in episode payloads
type MovieRef struct {
	Slug  string `json:"slug"`
	Title string `json:"ten_phim,omitempty"`
}

// Episode is the episode record nested in link payloads
type Episode struct {
	Number        int      `json:"so_tap"`
	SkipIntroTime *int     `json:"skip_intro_time,omitempty"`
	Image         string   `json:"tap_image,omitempty"`
	Movie         MovieRef `json:"phim"`
}

// ServerRef identifies the mirror an episode link belongs to
type ServerRef struct {
	Slug string `json:"slug"`
}

// EpisodeLink is one playable link of an episode on a given server/language
type EpisodeLink struct {
	ID       int       `json:"id,omitempty"`
	Language Language  `json:"ngon_ngu"`
	Server   ServerRef `json:"server"`
	Link     string    `json:"link_video"`
	Episode  Episode   `json:"tap_phim"`
}

// EpisodeLinkSet groups links by language and then by server slug
type EpisodeLinkSet map[Language]map[string][]EpisodeLink

// MovieEpisodes is the full episode listing of a movie across all mirrors
type MovieEpisodes struct {
	Slug  string         `json:"slug"`
	Links EpisodeLinkSet `json:"links"`
}

// EpisodeUpdate is an edit of a single episode: links per language/server,
// optional image and skip-intro time.
type EpisodeUpdate struct {
	Links         map[Language]map[string]string `json:"links"`
	Image         *string                        `json:"tap_image,omitempty"`
	SkipIntroTime *int                           `json:"skip_intro_time,omitempty"`
	ApplyToAll    bool                           `json:"apply_to_all"`
}

// VideoSource carries the links of one server for a manual episode import
type VideoSource struct {
	ServerID      int     `json:"server_id"`
	LinkSubtitled *string `json:"link_vietsub"`
	LinkDubbed    *string `json:"link_thuyetminh"`
}

// EpisodeImport is the payload of POST /import/manual-episode-import
type EpisodeImport struct {
	MovieSlug    string        `json:"phim_slug"`
	Number       int           `json:"so_tap"`
	VideoSources []VideoSource `json:"video_sources"`
}
