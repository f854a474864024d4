package models

import (
	"strings"
	"time"
)

// VideoPlatform is where a college video is hosted
type VideoPlatform string

const (
	PlatformYouTube    VideoPlatform = "youtube"
	PlatformVimeo      VideoPlatform = "vimeo"
	PlatformCloudinary VideoPlatform = "cloudinary"
	PlatformOther      VideoPlatform = "other"
)

// DetectPlatform infers the platform of a user-supplied video URL
func DetectPlatform(url string) VideoPlatform {
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "youtube"), strings.Contains(u, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(u, "vimeo"):
		return PlatformVimeo
	default:
		return PlatformOther
	}
}

// CollegeImage defines the college image model based on the 'college_images' table
type CollegeImage struct {
	ID           int64     `json:"id" db:"id"`
	CollegeID    int64     `json:"collegeId" db:"college_id"`
	ImageURL     string    `json:"imageUrl" db:"image_url"`
	PublicID     *string   `json:"cloudinaryPublicId,omitempty" db:"cloudinary_public_id"`
	Caption      *string   `json:"caption,omitempty" db:"caption"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// CollegeVideo defines the college video model based on the 'college_videos' table
type CollegeVideo struct {
	ID           int64         `json:"id" db:"id"`
	CollegeID    int64         `json:"collegeId" db:"college_id"`
	VideoURL     string        `json:"videoUrl" db:"video_url"`
	PublicID     *string       `json:"cloudinaryPublicId,omitempty" db:"cloudinary_public_id"`
	Title        *string       `json:"title,omitempty" db:"title"`
	Platform     VideoPlatform `json:"platform" db:"platform"`
	DisplayOrder int           `json:"displayOrder" db:"display_order"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
}

// HostedExternally reports whether the video's asset lives in the media store and must
// be deleted there
func (v *CollegeVideo) HostedExternally() bool {
	return v.Platform == PlatformCloudinary && v.PublicID != nil && *v.PublicID != ""
}
