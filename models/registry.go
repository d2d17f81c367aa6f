package models

// All returns every model managed by AutoMigrate, parents first
func All() []interface{} {
	return []interface{}{
		&User{},
		&Entity{},
		&QualificationTemplate{},
		&PartyRoleType{},
		&ClauseText{},
		&ContractType{},
		&Draft{},
		&Attachment{},
		&HistoryEntry{},
	}
}
