package dto

// AddVideoURLRequest attaches an externally hosted video
type AddVideoURLRequest struct {
	URL   string  `json:"url" binding:"required,url"`
	Title *string `json:"title" binding:"omitempty,max=255"`
}

// ReorderRequest sets display order from the position of each id in the list
type ReorderRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1,dive,gt=0"`
}
