package dto

// BanUserRequest payload.
type BanUserRequest struct {
	Reason string `json:"reason"`
}

// RejectSkillRequest payload.
type RejectSkillRequest struct {
	Reason string `json:"reason"`
}

// StatsResponse aggregates platform totals.
type StatsResponse struct {
	Users struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
		Banned int64 `json:"banned"`
	} `json:"users"`
	Skills struct {
		Total    int64 `json:"total"`
		Approved int64 `json:"approved"`
		Pending  int64 `json:"pending"`
		Rejected int64 `json:"rejected"`
	} `json:"skills"`
	SwapRequests struct {
		Total     int64 `json:"total"`
		Pending   int64 `json:"pending"`
		Accepted  int64 `json:"accepted"`
		Rejected  int64 `json:"rejected"`
		Cancelled int64 `json:"cancelled"`
	} `json:"swap_requests"`
}

// AdminUser includes moderation fields withheld from the public view.
type AdminUser struct {
	UserProfile
	IsBanned  bool    `json:"is_banned"`
	BanReason *string `json:"ban_reason"`
}
