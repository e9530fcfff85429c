package specification

import "gorm.io/gorm"

type ByUID struct {
	UID string
}

func (s ByUID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("uid = ?", s.UID)
}
