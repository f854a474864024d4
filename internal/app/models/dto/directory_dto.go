package dto

// CreateStateRequest represents a request to create a state
type CreateStateRequest struct {
	Name string `json:"name" binding:"required,max=150"`
}

// UpdateStateRequest represents a partial state update
type UpdateStateRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=150"`
}

// CreateCityRequest represents a request to create a city
type CreateCityRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	StateID int64  `json:"stateId" binding:"required,gt=0"`
}

// UpdateCityRequest represents a partial city update
type UpdateCityRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=150"`
	StateID *int64  `json:"stateId" binding:"omitempty,gt=0"`
}

// CreateUniversityRequest represents a request to create a university
type CreateUniversityRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	CityID int64  `json:"cityId" binding:"required,gt=0"`
}

// UpdateUniversityRequest represents a partial university update
type UpdateUniversityRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=255"`
	CityID *int64  `json:"cityId" binding:"omitempty,gt=0"`
}

// CollegeFields are the optional descriptive fields of a college
type CollegeFields struct {
	Specialization   *string `json:"specialization" binding:"omitempty,max=255"`
	ShortDescription *string `json:"shortDescription" binding:"omitempty,max=500"`
	LongDescription  *string `json:"longDescription"`
	Description      *string `json:"description"`
	ContactEmail     *string `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone     *string `json:"contactPhone" binding:"omitempty,max=40"`
	WebsiteURL       *string `json:"websiteUrl" binding:"omitempty,url"`
}

// CreateCollegeRequest represents a request to create a college. CourseIDs, when
// given, become the college's initial course links.
type CreateCollegeRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	UniversityID int64  `json:"universityId" binding:"required,gt=0"`
	CollegeFields
	CourseIDs []int64 `json:"courseIds" binding:"omitempty,dive,gt=0"`
}

// UpdateCollegeRequest represents a partial college update. The slug is kept on rename.
type UpdateCollegeRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	UniversityID *int64  `json:"universityId" binding:"omitempty,gt=0"`
	CollegeFields
}

// CreateCourseRequest represents a request to create a catalog course
type CreateCourseRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
}

// UpdateCourseRequest represents a partial course update
type UpdateCourseRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

// LinkCoursesRequest replaces the course links of a college. An empty list removes all
// links.
type LinkCoursesRequest struct {
	CourseIDs []int64 `json:"courseIds" binding:"required,dive,gt=0"`
}
