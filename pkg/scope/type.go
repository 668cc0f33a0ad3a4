package scope

// Principal is the identity resolved from a verified bearer credential.
type Principal struct {
	UserID   int64  `json:"id"`
	WsID     int64  `json:"ws_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}
