package employee

import "time"

type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Designation  string    `gorm:"column:designation;not null"`
	DepartmentID int64     `gorm:"column:department_id;not null"`
	UserID       *int64    `gorm:"column:user_id;uniqueIndex"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
