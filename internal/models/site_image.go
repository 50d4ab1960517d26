package models

import "time"

// Site image sections managed from the admin back office.
const (
	SectionBanner   = "banner"
	SectionSolution = "solution"
	SectionLogo     = "logo"
)

// SiteImage is one managed slot of site imagery (a home banner, a solution
// card, a logo variant). Slots are fixed; the admin replaces the image and
// the banner text, never the slot itself.
type SiteImage struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Section     string    `json:"section"`
	ImageURL    string    `json:"image_url"`
	BannerText  string    `json:"banner_text"`
	UpdatedAt   time.Time `json:"updated_at"`
}
