package models

import "github.com/google/uuid"

// UserProfile keeps per-user presentation settings. ProfilePicture is a
// back-reference to an uploaded file; the file outlives the profile row.
type UserProfile struct {
	BaseModel
	Theme            string     `json:"theme" gorm:"type:varchar(20);not null;default:'system'"`
	Language         string     `json:"language" gorm:"type:varchar(10);not null;default:'id'"`
	Timezone         string     `json:"timezone" gorm:"type:varchar(50);not null;default:'Asia/Jakarta'"`
	ProfilePictureID *uuid.UUID `json:"profilePictureID,omitempty" gorm:"type:uuid"`
	UserID           uuid.UUID  `json:"userID" gorm:"type:uuid;not null;uniqueIndex"`

	ProfilePicture *File `json:"profilePicture,omitempty" gorm:"foreignKey:ProfilePictureID"`
}
