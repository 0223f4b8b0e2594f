package audit

type AuditLogResponse struct {
	ID          int64  `json:"id"`
	ActorType   string `json:"actor_type"`
	ActorID     int64  `json:"actor_id"`
	Action      string `json:"action"`
	TargetTable string `json:"target_table"`
	TargetID    int64  `json:"target_id"`
	Timestamp   string `json:"timestamp"`
}
