package models

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Team{},
		&Project{},
		&ProjectTeam{},
		&ProjectMembership{},
		&Task{},
		&TaskAssignment{},
		&Comment{},
		&Attachment{},
	}
}
