package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Usage is one completion recorded in the ledger.
type Usage struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string          `gorm:"size:32;not null;index" json:"user_id"`
	ChannelID        string          `gorm:"size:32;not null" json:"channel_id"`
	GuildID          string          `gorm:"size:32" json:"guild_id"`
	Kind             string          `gorm:"size:32;not null" json:"kind"`
	Model            string          `gorm:"size:128;not null" json:"model"`
	Brevity          string          `gorm:"size:16" json:"brevity"`
	PromptTokens     int             `gorm:"not null" json:"prompt_tokens"`
	CompletionTokens int             `gorm:"not null" json:"completion_tokens"`
	Tokens           int             `gorm:"not null" json:"tokens"`
	Cost             decimal.Decimal `gorm:"type:decimal(12,6);not null" json:"cost"`
	CreatedAt        time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Usage) TableName() string {
	return "usage"
}

func (u *Usage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Tokens == 0 {
		u.Tokens = u.PromptTokens + u.CompletionTokens
	}
	return nil
}
