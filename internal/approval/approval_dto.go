package approval

type DecideRequest struct {
	LeaveID  int64  `json:"leave_id" binding:"required,gt=0"`
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

type ApprovalResponse struct {
	ID         int64  `json:"id"`
	LeaveID    int64  `json:"leave_id"`
	ApprovedBy int64  `json:"approved_by"`
	ApprovedAt string `json:"approved_at"`
	Decision   string `json:"decision"`
}
