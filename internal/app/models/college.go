package models

import "time"

// College defines the college model based on the 'colleges' table
type College struct {
	ID                   int64     `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Slug                 string    `json:"slug" db:"slug"`
	UniversityID         int64     `json:"universityId" db:"university_id"`
	Specialization       *string   `json:"specialization,omitempty" db:"specialization"`
	ShortDescription     *string   `json:"shortDescription,omitempty" db:"short_description"`
	LongDescription      *string   `json:"longDescription,omitempty" db:"long_description"`
	Description          *string   `json:"description,omitempty" db:"description"`
	BrochureURL          *string   `json:"brochureUrl,omitempty" db:"brochure_url"`
	BrochurePublicID     *string   `json:"brochurePublicId,omitempty" db:"brochure_public_id"`
	FeeStructurePDFURL   *string   `json:"feeStructurePdfUrl,omitempty" db:"fee_structure_pdf_url"`
	FeeStructurePublicID *string   `json:"feeStructurePublicId,omitempty" db:"fee_structure_public_id"`
	ContactEmail         *string   `json:"contactEmail,omitempty" db:"contact_email"`
	ContactPhone         *string   `json:"contactPhone,omitempty" db:"contact_phone"`
	WebsiteURL           *string   `json:"websiteUrl,omitempty" db:"website_url"`
	ImageURL             *string   `json:"imageUrl,omitempty" db:"image_url"`
	ImagePublicID        *string   `json:"imagePublicId,omitempty" db:"image_public_id"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`

	// Enrichment for list and detail views
	University    *Ref    `json:"university,omitempty"`
	City          *Ref    `json:"city,omitempty"`
	State         *Ref    `json:"state,omitempty"`
	CoverImageURL *string `json:"coverImageUrl,omitempty"`
}

// CollegeDetail is a college with its linked courses and ordered media
type CollegeDetail struct {
	College
	Courses []Course       `json:"courses"`
	Images  []CollegeImage `json:"images"`
	Videos  []CollegeVideo `json:"videos"`
}

// CollegeCourse links a college to a catalog course
type CollegeCourse struct {
	ID        int64     `json:"id" db:"id"`
	CollegeID int64     `json:"collegeId" db:"college_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DocumentKind names a PDF slot on a college
type DocumentKind string

const (
	DocumentBrochure     DocumentKind = "brochure"
	DocumentFeeStructure DocumentKind = "fee_structure"
)

// IsValid reports whether k is a known document slot
func (k DocumentKind) IsValid() bool {
	return k == DocumentBrochure || k == DocumentFeeStructure
}
