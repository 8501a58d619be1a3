package domain

// Team is a flat assignment target for tickets. There is no hierarchy.
type Team struct {
	Name string
}
