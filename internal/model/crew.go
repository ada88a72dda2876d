package model

// Crew is a staff member who can be assigned to journeys.  This
// struct corresponds to a row in the `crew` table.
type Crew struct {
	ID        uint64  // crew.id
	FirstName string  // crew.first_name
	LastName  string  // crew.last_name
	ImageURL  *string // crew.image_url (nullable)
}

// FullName returns the crew member's display name.
func (c *Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}
