package model

import "time"

// TaskModel mirrors the 'tasks' table. Image and drawing hold data URLs sent by the client.
type TaskModel struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description *string   `gorm:"type:text"`
	Completed   bool      `gorm:"not null"`
	UserID      int64     `gorm:"not null;index"`
	Image       *string   `gorm:"type:text"`
	Drawing     *string   `gorm:"type:text"`
	ImageType   *string   `gorm:"type:varchar(20)"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (TaskModel) TableName() string {
	return "tasks"
}

// All returns every model managed by AutoMigrate, parents first.
func All() []any {
	return []any{&UserModel{}, &TaskModel{}}
}
