package domain

import (
	"time"
)

// Supported social media platforms.
const (
	PlatformFacebook  = "facebook"
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
	PlatformYouTube   = "youtube"
	PlatformWhatsApp  = "whatsapp"
)

// ValidPlatforms returns the closed set of supported social platforms.
func ValidPlatforms() []string {
	return []string{
		PlatformFacebook,
		PlatformTwitter,
		PlatformInstagram,
		PlatformLinkedIn,
		PlatformYouTube,
		PlatformWhatsApp,
	}
}

// IsValidPlatform checks whether the given platform is supported.
func IsValidPlatform(platform string) bool {
	for _, p := range ValidPlatforms() {
		if p == platform {
			return true
		}
	}
	return false
}

// SocialLink is a link to the restaurant's presence on a social platform.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// OpeningHours describes when the restaurant is open.
type OpeningHours struct {
	Day  string `json:"day"`
	Hour string `json:"hour"`
}

// Footer is the site-wide footer content. A single row exists at any time.
type Footer struct {
	ID           string       `json:"id"`
	Location     string       `json:"location"`
	Email        string       `json:"email"`
	PhoneNumber  string       `json:"phone_number"`
	Desc         string       `json:"desc"`
	SocialMedia  []SocialLink `json:"social_media"`
	OpeningHours OpeningHours `json:"opening_hours"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DefaultFooter returns the footer content served before an admin has
// configured anything.
func DefaultFooter() *Footer {
	return &Footer{
		Location:    "Istanbul, Turkey",
		Email:       "info@example.com",
		PhoneNumber: "+90 555 123 4567",
		Desc:        "Fresh, fast, and delivered to your door.",
		SocialMedia: []SocialLink{},
		OpeningHours: OpeningHours{
			Day:  "Monday - Sunday",
			Hour: "10:00 - 22:00",
		},
	}
}
