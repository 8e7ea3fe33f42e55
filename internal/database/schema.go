package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email        string `gorm:"size:255;uniqueIndex;not null"`
	Name         string `gorm:"size:100"`
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	Chats []Chat `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Chat struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID `gorm:"type:uuid;index;not null"`
	Title  string    `gorm:"size:255;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`

	Messages []Message `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
}

// Message rows are immutable once created; there is no update path.
type Message struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	ChatID uuid.UUID `gorm:"type:uuid;index;not null"`
	Role   string    `gorm:"size:20;not null"`
	Text   string    `gorm:"type:text;not null"`

	FileName sql.NullString `gorm:"size:255"`
	FileType sql.NullString `gorm:"size:100"`
	FileSize sql.NullInt64

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
