package models

import "gorm.io/gorm"

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

type Designation string

const (
	DesignationSDE Designation = "SDE"
	DesignationITE Designation = "ITE"
	DesignationHR  Designation = "HR"
	DesignationTA  Designation = "TA"
)

type Department string

const (
	DepartmentIT        Department = "IT"
	DepartmentHR        Department = "HR"
	DepartmentFinance   Department = "Finance"
	DepartmentMarketing Department = "Marketing"
	DepartmentAdmin     Department = "Admin"
)

func ValidDesignation(d Designation) bool {
	switch d {
	case DesignationSDE, DesignationITE, DesignationHR, DesignationTA:
		return true
	}
	return false
}

func ValidDepartment(d Department) bool {
	switch d {
	case DepartmentIT, DepartmentHR, DepartmentFinance, DepartmentMarketing, DepartmentAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name         string      `gorm:"size:255;not null"`
	Email        string      `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string      `gorm:"not null"`
	Designation  Designation `gorm:"type:varchar(20);not null"`
	Department   Department  `gorm:"type:varchar(20);not null"`
	Role         Role        `gorm:"type:varchar(20);not null;default:User"`

	// tasks assigned to this user; user deletion is restricted, never cascaded
	Tasks []Task `gorm:"foreignKey:AssignedPersonID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
