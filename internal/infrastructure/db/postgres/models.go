package postgres

import "time"

type userModel struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name"`
	Email      string    `gorm:"column:email"`
	Role       string    `gorm:"column:role"`
	Department *string   `gorm:"column:department"`
	Avatar     *string   `gorm:"column:avatar"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type credentialModel struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (credentialModel) TableName() string { return "auth_credentials" }

// ticketModel joins its requester, assignee and comments through Preload.
// The user pointers are nil when the referenced row no longer exists.
type ticketModel struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	FriendlyID  *int64    `gorm:"column:friendly_id;->"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Status      string    `gorm:"column:status"`
	Priority    string    `gorm:"column:priority"`
	Department  string    `gorm:"column:department"`
	RequesterID string    `gorm:"column:requester_id;type:uuid"`
	AssigneeID  *string   `gorm:"column:assignee_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`

	Requester *userModel     `gorm:"foreignKey:RequesterID;references:ID"`
	Assignee  *userModel     `gorm:"foreignKey:AssigneeID;references:ID"`
	Comments  []commentModel `gorm:"foreignKey:TicketID;references:ID"`
}

func (ticketModel) TableName() string { return "tickets" }

type commentModel struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey"`
	TicketID   string    `gorm:"column:ticket_id;type:uuid"`
	UserID     string    `gorm:"column:user_id;type:uuid"`
	Content    string    `gorm:"column:content"`
	IsInternal bool      `gorm:"column:is_internal"`
	CreatedAt  time.Time `gorm:"column:created_at"`

	Author *userModel `gorm:"foreignKey:UserID;references:ID"`
}

func (commentModel) TableName() string { return "comments" }
