package models

import "time"

type Post struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Title      string    `gorm:"size:150;not null" json:"title"`
	Subtitle   string    `gorm:"size:250" json:"subtitle"`
	Author     string    `gorm:"size:50;not null" json:"author"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	DatePosted time.Time `gorm:"index" json:"date_posted"`
}

type ContactMessage struct {
	ID       uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Name     string    `gorm:"size:50;not null" json:"name"`
	Email    string    `gorm:"size:120;not null" json:"email"`
	Subject  string    `gorm:"size:150;not null" json:"subject"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	DateSent time.Time `json:"date_sent"`
}

type Review struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	GameID     int       `gorm:"not null;index" json:"game_id"` // RAWG game id, no local foreign key
	UserName   string    `gorm:"size:100;not null" json:"user_name"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	DatePosted time.Time `gorm:"index" json:"date_posted"`
}
