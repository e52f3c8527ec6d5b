package model

import "time"

// Account 呼叫者身分（錢包位址或任意帳號字串）
type Account string

// Event 活動模型，建立後僅 TicketRemaining 與 Proceeds 會變動
type Event struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	TicketCount     uint64    `json:"ticket_count"`
	TicketRemaining uint64    `json:"ticket_remaining"`
	Price           uint64    `json:"price"`
	Date            time.Time `json:"date"`
	Organizer       Account   `json:"organizer"`
	Proceeds        uint64    `json:"proceeds"`
}

// SoldOut 檢查是否已售完
func (e Event) SoldOut() bool {
	return e.TicketRemaining == 0
}

// CreateEventRequest 建立活動請求，Date 為 unix 秒，是否晚於現在由帳本判斷
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	TicketCount uint64 `json:"ticket_count"`
	Price       uint64 `json:"price"`
	Date        int64  `json:"date"`
}

// BuyTicketRequest 購票請求，Payment 須等於 Quantity × Price
type BuyTicketRequest struct {
	Quantity uint64 `json:"quantity"`
	Payment  uint64 `json:"payment"`
}

// TransferTicketRequest 轉讓票券請求
type TransferTicketRequest struct {
	Quantity uint64  `json:"quantity"`
	To       Account `json:"to" binding:"required"`
}

// CreateEventResponse 建立活動響應
type CreateEventResponse struct {
	ID uint64 `json:"id"`
}

// OwnershipResponse 持票數響應
type OwnershipResponse struct {
	Account Account `json:"account"`
	EventID uint64  `json:"event_id"`
	Tickets uint64  `json:"tickets"`
}
