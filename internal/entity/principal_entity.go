package entity

// Principal is the authenticated caller of a request.
type Principal struct {
	Id    string
	Email string
	Type  string
}
