package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&School{},
		&Kid{},
		&KidRFIDToken{},
		&ProductGroup{},
		&Product{},
		&Discount{},
		&Order{},
		&OrderLine{},
		&MonthlySpending{},
	)
}
