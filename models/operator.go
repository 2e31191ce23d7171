package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Operator is the single service account that scanning devices and the
// settings UI authenticate as.
type Operator struct {
	Id        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"unique;not null"`
	Password  []byte    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (op *Operator) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	op.Id = uuid.NewString()
	return
}

func (op *Operator) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	op.Password = hashedPassword
}

func (op *Operator) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(op.Password, []byte(password))
}
