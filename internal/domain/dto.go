package domain

import "github.com/shopspring/decimal"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AddLineRequest struct {
	DishID int `json:"dish_id"`
}

type LineResponse struct {
	TableID  int    `json:"table_id"`
	DishID   int    `json:"dish_id"`
	Quantity int    `json:"quantity"`
	Dish     string `json:"dish"`
}

type TableResponse struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type DishResponse struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type ChooseMethodRequest struct {
	Method string `json:"method"`
}

type UPIResultRequest struct {
	Result string `json:"result"` // completed | failed
}

type CashRequest struct {
	Tendered decimal.Decimal `json:"tendered"`
}

type SettlementResponse struct {
	TableID  int             `json:"table_id"`
	State    string          `json:"state"`
	Method   string          `json:"method"`
	Total    decimal.Decimal `json:"total"`
	Change   decimal.Decimal `json:"change,omitempty"`
	Finished bool            `json:"finished"`
}

type OrdersSummaryResponse struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
