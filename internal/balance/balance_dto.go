package balance

type AllocateBalanceRequest struct {
	EmployeeID     int64 `json:"employee_id" binding:"required,gt=0"`
	TypeID         int64 `json:"type_id" binding:"required,gt=0"`
	TotalAllocated int   `json:"total_allocated"`
}

type UpdateBalanceRequest struct {
	TotalAllocated *int `json:"total_allocated"`
	TotalUsed      *int `json:"total_used"`
}

type BalanceResponse struct {
	ID             int64 `json:"id"`
	EmployeeID     int64 `json:"employee_id"`
	TypeID         int64 `json:"type_id"`
	TotalAllocated int   `json:"total_allocated"`
	TotalUsed      int   `json:"total_used"`
	Remaining      int   `json:"remaining"`
}
