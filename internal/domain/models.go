package domain

// Domain contains core models shared by services and pages.

// Address is the postal address attached to a listed user.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// User is a single entry of the demo listing.
type User struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address Address `json:"address"`
}

// Credentials is the submitted login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
