package leave

type SubmitLeaveRequest struct {
	TypeID    int64  `json:"type_id" binding:"required,gt=0"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason"`
}

type LeaveResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	TypeID     int64  `json:"type_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}
