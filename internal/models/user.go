package models

type RoleTag string

const (
	RoleQuester   RoleTag = "QUESTER"
	RoleRequester RoleTag = "REQUESTER"
)

type User struct {
	BaseModel
	Email        string       `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string       `json:"-" gorm:"type:text;not null"`
	FirstName    string       `json:"firstName" gorm:"type:varchar(100)"`
	LastName     string       `json:"lastName" gorm:"type:varchar(100)"`
	FullName     string       `json:"fullName" gorm:"type:varchar(200)"`
	IsQuester    bool         `json:"isQuester" gorm:"not null;default:false"`
	IsRequester  bool         `json:"isRequester" gorm:"not null;default:false"`
	Profile      *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}
