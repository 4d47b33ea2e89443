package models

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type EntryListParams struct {
	Keyword string `form:"q"`
	Tag     string `form:"tag"`
	Sort    string `form:"sort,default=score"`
	Limit   int    `form:"limit,default=10"`
}
