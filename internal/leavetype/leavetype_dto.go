package leavetype

type CreateLeaveTypeRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type LeaveTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
