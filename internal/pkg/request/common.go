package request

// DefaultPageSize is used when a list request omits size.
const DefaultPageSize = 20

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ListParams holds offset pagination shared by list endpoints.
// From is the index of the first element, Size the maximum number of elements.
type ListParams struct {
	From int `form:"from" binding:"omitempty,min=0"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in the default page size.
func (p *ListParams) Normalize() {
	if p.From < 0 {
		p.From = 0
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
}
