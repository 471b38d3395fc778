package request

type CreateReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

func (r UpdateReviewRequest) Complete() bool {
	return r.Rating != nil && r.Comment != nil
}

type ReviewListRequest struct {
	PaginatedRequest
	Rating *int
	UserID *string
	Search *string
}
