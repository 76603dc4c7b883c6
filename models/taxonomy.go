package models

// Genre is a catalog genre (the_loai)
type Genre struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"ten"`
	Slug string `json:"slug"`
}

// Country is a production country (quoc_gia)
type Country struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"ten_quoc_gia"`
	Code string `json:"code"`
	Slug string `json:"slug,omitempty"`
}

// Topic is a many-to-many grouping of movies (chu_de)
type Topic struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"ten"`
	Slug        string `json:"slug"`
	Description string `json:"mo_ta,omitempty"`
}
