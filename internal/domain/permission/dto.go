package permission

type Response struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Module      string `json:"module"`
	Category    string `json:"category"`
}

func ToResponse(p Permission) Response {
	return Response{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Module:      p.Module,
		Category:    string(p.Category),
	}
}
