package models

// File is the metadata row behind one stored object. Size is kept in
// kilobytes. Index is only set when the file arrived as part of a
// multi-file batch, recording its 0-based position in that batch.
type File struct {
	BaseModel
	ModuleName string  `json:"moduleName" gorm:"type:varchar(100);not null;index"`
	Name       string  `json:"name" gorm:"type:varchar(255)"`
	Type       string  `json:"type" gorm:"type:varchar(255)"`
	Size       float64 `json:"size"`
	Index      *int    `json:"index" gorm:"column:batch_index"`
	URI        string  `json:"uri" gorm:"type:text;not null"`
}
