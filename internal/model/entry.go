package model

import "time"

// EntryKind 帳本異動類型
type EntryKind string

const (
	EntryKindCreated     EntryKind = "created"
	EntryKindPurchased   EntryKind = "purchased"
	EntryKindTransferred EntryKind = "transferred"
)

// IsValid 驗證類型是否有效
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindCreated, EntryKindPurchased, EntryKindTransferred:
		return true
	}
	return false
}

// Entry 一筆已套用的帳本異動。Seq 在帳本鎖內配發，從 1 開始連續遞增。
//
// created:     Account 為主辦人，Quantity 為總票數，Name/Price/Date 為活動資料
// purchased:   Account 為買家，Amount 為付款金額
// transferred: Account 為轉出者，To 為接收者
type Entry struct {
	Seq       uint64    `json:"seq"`
	RequestID string    `json:"request_id,omitempty"`
	Kind      EntryKind `json:"kind"`
	EventID   uint64    `json:"event_id"`
	Account   Account   `json:"account"`
	To        Account   `json:"to,omitempty"`
	Quantity  uint64    `json:"quantity"`
	Amount    uint64    `json:"amount,omitempty"`
	Name      string    `json:"name,omitempty"`
	Price     uint64    `json:"price,omitempty"`
	Date      time.Time `json:"date"`
	At        time.Time `json:"at"`
}
