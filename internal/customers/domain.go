package customers

import "time"

// Customer is a buyer known to the store.
type Customer struct {
	ID        int64
	Name      string
	Contact   *string
	CreatedAt time.Time
}

// Ref is the minimal shape used by reference pickers on other screens.
type Ref struct {
	ID   int64
	Name string
}

// CustomerInput carries form values for create and update.
type CustomerInput struct {
	Name    string
	Contact string
}
