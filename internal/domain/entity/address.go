package entity

// Address is a geographic location expressed as a postal address.
// It is owned by exactly one customer profile.
type Address struct {
	ID            string
	Country       string
	CountryCode   string
	Postcode      string
	State         string
	StateDistrict string
	City          string
	Street        string
	StreetNumber  int
	OwnerID       string // customer profile id

	// Resolved through the owner profile when the row is loaded.
	OwnerAccount string
}

func (a *Address) OwnerAccountID() string { return a.OwnerAccount }

// Node is a named geographic point attached to an address. Many nodes
// may share one address; ownership follows the address owner.
type Node struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	AddressID string

	// Resolved through address -> owner profile when the row is loaded.
	OwnerAccount string
}

func (n *Node) OwnerAccountID() string { return n.OwnerAccount }
